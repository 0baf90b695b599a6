package database

import (
	"context"
	"sort"
	"sync"
	"time"
	"xtvredirect/entity"
)

// MemoryDB is a process-local Store for development runs and tests.
type MemoryDB struct {
	mu      sync.RWMutex
	records map[string]*entity.RedirectRecord
	now     func() time.Time
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		records: make(map[string]*entity.RedirectRecord),
		now:     time.Now,
	}
}

func (m *MemoryDB) EnsureIndexes(_ context.Context) error { return nil }

func (m *MemoryDB) Close(_ context.Context) error { return nil }

func (m *MemoryDB) CreateRedirect(_ context.Context, rec *entity.RedirectRecord) error {
	rec.CreatedAt = m.now().UTC()
	rec.UsedCount = 0
	rec.LastUsedAt = nil
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.Code]; ok {
		return entity.ErrDuplicateCode
	}
	c := *rec
	m.records[rec.Code] = &c
	return nil
}

func (m *MemoryDB) GetRedirect(_ context.Context, code string) (*entity.RedirectRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[code]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec), nil
}

func (m *MemoryDB) IncrementUsage(_ context.Context, code string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[code]
	if !ok {
		return entity.ErrNotFound
	}
	rec.UsedCount++
	t := at.UTC()
	rec.LastUsedAt = &t
	return nil
}

func (m *MemoryDB) UpdateInviteLink(_ context.Context, code, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[code]
	if !ok {
		return entity.ErrNotFound
	}
	rec.InviteLink = link
	return nil
}

func (m *MemoryDB) ListRedirects(_ context.Context, skip, limit int64) ([]*entity.RedirectRecord, error) {
	m.mu.RLock()
	all := make([]*entity.RedirectRecord, 0, len(m.records))
	for _, rec := range m.records {
		all = append(all, copyRecord(rec))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Code < all[j].Code
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryDB) ListAll(ctx context.Context) ([]*entity.RedirectRecord, error) {
	return m.ListRedirects(ctx, 0, 0)
}

func (m *MemoryDB) CountRedirects(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

func (m *MemoryDB) SumUsage(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, rec := range m.records {
		total += rec.UsedCount
	}
	return total, nil
}

func (m *MemoryDB) Stats(ctx context.Context) (*entity.Stats, error) {
	return stats(ctx, m)
}

func copyRecord(rec *entity.RedirectRecord) *entity.RedirectRecord {
	c := *rec
	if rec.LastUsedAt != nil {
		t := *rec.LastUsedAt
		c.LastUsedAt = &t
	}
	return &c
}
