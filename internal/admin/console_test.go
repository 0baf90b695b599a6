package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
	"xtvredirect/internal/chat/chattest"
	"xtvredirect/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operator = int64(1)

var origin = chat.MessageRef{ChatID: operator, MessageID: 10}

func newConsole(t *testing.T, records int) (*Console, *chattest.Fake, *database.MemoryDB) {
	t.Helper()
	ctx := context.Background()
	db := database.NewMemoryDB()
	for i := 0; i < records; i++ {
		require.NoError(t, db.CreateRedirect(ctx, &entity.RedirectRecord{
			Code:       fmt.Sprintf("code%02d", i),
			SeriesName: fmt.Sprintf("Series %d", i),
			CatalogId:  int64(i + 1),
			MediaType:  entity.MediaSeries,
			ChannelId:  -100,
			InviteLink: "https://t.me/+static",
		}))
		require.NoError(t, db.IncrementUsage(ctx, fmt.Sprintf("code%02d", i), time.Now()))
	}
	tr := chattest.New()
	return New(tr, db, operator, slog.New(slog.NewTextHandler(io.Discard, nil))), tr, db
}

func TestDashboard(t *testing.T) {
	c, tr, _ := newConsole(t, 3)
	ctx := context.Background()

	require.NoError(t, c.Dashboard(ctx, 99, 99))
	assert.Zero(t, tr.Calls())

	require.NoError(t, c.Dashboard(ctx, operator, operator))
	sent := tr.LastSent()
	assert.Contains(t, sent.Text, "Admin Dashboard")
	assert.Contains(t, sent.Text, "<b>Total Redirect Links:</b> 3")
	assert.Contains(t, sent.Text, "<b>Total Redirects Served:</b> 3")
	require.Len(t, sent.Keyboard, 3)
	assert.Equal(t, "admin_list|0", sent.Keyboard[0][0].Data)
	assert.Equal(t, "admin_stats", sent.Keyboard[1][0].Data)
	assert.Equal(t, "admin_regenerate", sent.Keyboard[2][0].Data)
}

func TestCallback_Unauthorized(t *testing.T) {
	c, tr, _ := newConsole(t, 1)
	require.NoError(t, c.Callback(context.Background(), Callback{ID: "q", UserID: 99, Data: CbStats, Origin: origin}))
	require.Len(t, tr.Answers, 1)
	assert.Equal(t, chattest.Answer{CallbackID: "q", Text: "Unauthorized", Alert: true}, tr.Answers[0])
	assert.Empty(t, tr.Edits)
}

func TestCallback_ListPages(t *testing.T) {
	c, tr, _ := newConsole(t, 12)
	ctx := context.Background()

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: "admin_list|0", Origin: origin}))
	first := tr.LastEdit()
	assert.Contains(t, first.Text, "(page 1/2)")
	assert.Contains(t, first.Text, "Uses: 1, last: just now")
	require.Len(t, first.Keyboard, 2)
	assert.Equal(t, []chat.Button{{Text: "Next ➡️", Data: "admin_list|1"}}, first.Keyboard[0])
	assert.Equal(t, "admin_stats", first.Keyboard[1][0].Data)

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: "admin_list|1", Origin: origin}))
	second := tr.LastEdit()
	assert.Contains(t, second.Text, "(page 2/2)")
	assert.Equal(t, "admin_list|0", second.Keyboard[0][0].Data)

	// past the end clamps to the last page
	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: "admin_list|9", Origin: origin}))
	assert.Contains(t, tr.LastEdit().Text, "(page 2/2)")
}

func TestRegenerate(t *testing.T) {
	c, tr, db := newConsole(t, 1)
	ctx := context.Background()

	consumed, err := c.Text(ctx, operator, operator, "code00")
	require.NoError(t, err)
	assert.False(t, consumed)

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbRegenerate, Origin: origin}))
	assert.Contains(t, tr.LastEdit().Text, "Regenerate Invite Link")
	assert.Equal(t, "cancel_regenerate", tr.LastEdit().Keyboard[0][0].Data)

	consumed, err = c.Text(ctx, operator, operator, "missing")
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, "❌ <b>Invalid Code.</b> Please try again or /cancel.", tr.LastSent().Text)

	consumed, err = c.Text(ctx, operator, operator, " code00 ")
	require.NoError(t, err)
	assert.True(t, consumed)
	require.Len(t, tr.Invites, 1)
	assert.Equal(t, chat.InviteOptions{Name: "Regen Link: Series 0"}, tr.Invites[0].Opts)
	assert.Contains(t, tr.LastSent().Text, "Invite Link Regenerated!")

	rec, _ := db.GetRedirect(ctx, "code00")
	assert.Equal(t, "https://t.me/+minted1", rec.InviteLink)

	consumed, _ = c.Text(ctx, operator, operator, "code00")
	assert.False(t, consumed)
}

func TestRegenerate_MintFailureTerminates(t *testing.T) {
	c, tr, db := newConsole(t, 1)
	ctx := context.Background()
	tr.InviteErr = errors.New("not enough rights")

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbRegenerate, Origin: origin}))
	consumed, err := c.Text(ctx, operator, operator, "code00")
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Contains(t, tr.LastSent().Text, "Could not create invite link")

	rec, _ := db.GetRedirect(ctx, "code00")
	assert.Equal(t, "https://t.me/+static", rec.InviteLink)
	consumed, _ = c.Text(ctx, operator, operator, "code00")
	assert.False(t, consumed)
}

func TestRegenerate_Cancel(t *testing.T) {
	c, tr, _ := newConsole(t, 1)
	ctx := context.Background()

	assert.False(t, c.Cancel(ctx, operator, operator))

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbRegenerate, Origin: origin}))
	assert.True(t, c.Cancel(ctx, operator, operator))
	assert.Equal(t, "❌ Regeneration cancelled.", tr.LastSent().Text)

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbRegenerate, Origin: origin}))
	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbCancelRegenerate, Origin: origin}))
	assert.Equal(t, "❌ Regeneration cancelled.", tr.LastEdit().Text)
	consumed, _ := c.Text(ctx, operator, operator, "code00")
	assert.False(t, consumed)
}

func TestRegenerate_PromptExpires(t *testing.T) {
	c, _, _ := newConsole(t, 1)
	ctx := context.Background()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Callback(ctx, Callback{ID: "q", UserID: operator, Data: CbRegenerate, Origin: origin}))
	now = now.Add(awaitTTL)
	consumed, _ := c.Text(ctx, operator, operator, "code00")
	assert.False(t, consumed)
}
