package core

import (
	"context"
	"fmt"
	"log/slog"
	"xtvredirect/entity"
	"xtvredirect/lib/sl"
)

const (
	// PageSize matches the admin console listing.
	PageSize = 10
	// MaxPage keeps the store offset within int64.
	MaxPage = 1_000_000
)

type AuthService interface {
	ClientByToken(token string) (*entity.ApiClient, error)
}

type Store interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	ListRedirects(ctx context.Context, skip, limit int64) ([]*entity.RedirectRecord, error)
}

// Core is what the HTTP API serves: read-only views of the redirect store.
type Core struct {
	store Store
	auth  AuthService
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Core {
	if store == nil {
		panic("redirect store is nil")
	}
	return &Core{
		store: store,
		log:   log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) AuthenticateByToken(token string) (*entity.ApiClient, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.ClientByToken(token)
}

func (c *Core) Stats(ctx context.Context) (*entity.Stats, error) {
	return c.store.Stats(ctx)
}

// Redirects returns page (zero-based) of the newest records.
func (c *Core) Redirects(ctx context.Context, page int) (*entity.RedirectPage, error) {
	if page < 0 || page > MaxPage {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	records, err := c.store.ListRedirects(ctx, int64(page*PageSize), PageSize)
	if err != nil {
		return nil, err
	}
	out := &entity.RedirectPage{
		Page:     page,
		PageSize: PageSize,
		Total:    stats.TotalLinks,
		Items:    make([]entity.RedirectSummary, 0, len(records)),
	}
	for _, r := range records {
		out.Items = append(out.Items, r.Summary())
	}
	c.log.Debug("redirects listed", slog.Int("page", page), slog.Int("items", len(out.Items)))
	return out, nil
}
