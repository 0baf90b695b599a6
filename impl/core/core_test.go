package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"xtvredirect/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirects_PageBounds(t *testing.T) {
	c := New(database.NewMemoryDB(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	page, err := c.Redirects(ctx, MaxPage)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	for _, p := range []int{-1, MaxPage + 1, int(^uint(0) >> 1)} {
		_, err = c.Redirects(ctx, p)
		assert.Error(t, err, p)
	}
}
