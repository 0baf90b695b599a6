package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xtvredirect/lib/sl"
)

type recorder struct {
	messages []string
}

func (r *recorder) NotifyOperator(text string) {
	r.messages = append(r.messages, text)
}

func TestTelegramHandlerForwardsOnlyHighLevels(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	h := NewTelegramHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), rec, slog.LevelError)
	log := slog.New(h).With(sl.Module("setup"))

	log.Info("routine")
	log.Error("creating invite <link>", sl.Err(errors.New("Bad Request: not enough rights")))

	require.Len(t, rec.messages, 1)
	msg := rec.messages[0]
	assert.Contains(t, msg, "<b>ERROR</b>")
	assert.Contains(t, msg, "creating invite &lt;link&gt;")
	assert.Contains(t, msg, "mod: setup")
	assert.Contains(t, msg, "<pre>Bad Request: not enough rights</pre>")

	assert.Contains(t, buf.String(), "routine")
	assert.Contains(t, buf.String(), "creating invite")
}

func TestTelegramHandlerGroup(t *testing.T) {
	rec := &recorder{}
	h := NewTelegramHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), rec, slog.LevelWarn)
	slog.New(h).WithGroup("redirect").Warn("edit failed")

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "<code>redirect.edit failed</code>")
}
