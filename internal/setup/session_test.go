package setup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(ctx, 1, &Session{State: StateSeriesName, ChannelID: -1}))

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, int64(-1), s.ChannelID)

	now = now.Add(time.Minute)
	s, err = store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	require.NoError(t, store.Put(ctx, 1, &Session{State: StateSeriesSelection, Results: sampleResults(2)}))

	s, _ := store.Get(ctx, 1)
	s.Results[0].Title = "changed"
	s.State = StateCancelled

	again, _ := store.Get(ctx, 1)
	assert.Equal(t, "Show", again.Results[0].Title)
	assert.Equal(t, StateSeriesSelection, again.State)

	require.NoError(t, store.Delete(ctx, 1))
	gone, _ := store.Get(ctx, 1)
	assert.Nil(t, gone)
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "xtv:setup:42", redisKey(42))
}
