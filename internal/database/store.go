// Package database holds the redirect record stores.
package database

import (
	"context"
	"time"
	"xtvredirect/entity"
)

// Store is implemented by MongoDB and MemoryDB.
type Store interface {
	EnsureIndexes(ctx context.Context) error
	CreateRedirect(ctx context.Context, rec *entity.RedirectRecord) error
	GetRedirect(ctx context.Context, code string) (*entity.RedirectRecord, error)
	IncrementUsage(ctx context.Context, code string, at time.Time) error
	UpdateInviteLink(ctx context.Context, code, link string) error
	ListRedirects(ctx context.Context, skip, limit int64) ([]*entity.RedirectRecord, error)
	ListAll(ctx context.Context) ([]*entity.RedirectRecord, error)
	CountRedirects(ctx context.Context) (int64, error)
	SumUsage(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	Close(ctx context.Context) error
}

var (
	_ Store = (*MongoDB)(nil)
	_ Store = (*MemoryDB)(nil)
)

type counter interface {
	CountRedirects(ctx context.Context) (int64, error)
	SumUsage(ctx context.Context) (int64, error)
}

func stats(ctx context.Context, c counter) (*entity.Stats, error) {
	links, err := c.CountRedirects(ctx)
	if err != nil {
		return nil, err
	}
	served, err := c.SumUsage(ctx)
	if err != nil {
		return nil, err
	}
	return &entity.Stats{TotalLinks: links, TotalServed: served}, nil
}
