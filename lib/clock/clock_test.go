package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	assert.Equal(t, "never", Ago(nil, now))
	assert.Equal(t, "never", Ago(&time.Time{}, now))
	assert.Equal(t, "just now", Ago(at(10*time.Second), now))
	assert.Equal(t, "15m ago", Ago(at(15*time.Minute), now))
	assert.Equal(t, "3h ago", Ago(at(3*time.Hour+10*time.Minute), now))
	assert.Equal(t, "2d ago", Ago(at(50*time.Hour), now))
}

func TestFormat(t *testing.T) {
	ts := time.Date(2024, 5, 10, 14, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2024-05-10T12:30:00Z", Format(ts))
}
