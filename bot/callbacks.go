package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"xtvredirect/internal/admin"
	"xtvredirect/internal/chat"
	"xtvredirect/internal/setup"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// Callback data prefixes routed by the dispatcher; the flows own the full values.
const (
	cbSetup = "setup_" // setup_accept|<chat_id>, setup_decline|<chat_id>
	cbAdmin = "admin_" // admin_stats, admin_list|<page>, admin_regenerate
)

// origin identifies the message that carried the pressed button.
func origin(cq *tgbotapi.CallbackQuery) *chat.MessageRef {
	if msg := cq.Message; msg != nil {
		if im, ok := msg.(tgbotapi.Message); ok {
			return &chat.MessageRef{
				ChatID:    im.Chat.Id,
				MessageID: im.MessageId,
				Photo:     len(im.Photo) > 0,
			}
		}
	}
	return nil
}

// onSetupDecision handles Accept/Decline on an approval request.
func (t *TgBot) onSetupDecision(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	_, _ = cq.Answer(t.api, nil)

	var decision setup.Decision
	switch {
	case strings.HasPrefix(cq.Data, setup.CbAccept):
		decision.Accept = true
		decision.ChannelID = parseChannel(strings.TrimPrefix(cq.Data, setup.CbAccept))
	case strings.HasPrefix(cq.Data, setup.CbDecline):
		decision.ChannelID = parseChannel(strings.TrimPrefix(cq.Data, setup.CbDecline))
	default:
		t.log.Debug("unknown setup callback", slog.String("data", cq.Data))
		return nil
	}
	if decision.ChannelID == 0 {
		t.log.Warn("setup callback without channel", slog.String("data", cq.Data))
		return nil
	}

	err := t.setup.Handle(context.Background(), setup.Input{
		ActorID: cq.From.Id,
		Origin:  origin(cq),
		Event:   decision,
	})
	if err != nil {
		t.log.Error("setup decision", sl.User(cq.From.Id), sl.Err(err))
	}
	return nil
}

// onSelection handles search result buttons and the setup cancel button.
func (t *TgBot) onSelection(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	_, _ = cq.Answer(t.api, nil)

	err := t.setup.Handle(context.Background(), setup.Input{
		ActorID: cq.From.Id,
		Origin:  origin(cq),
		Event:   setup.Selection{Data: cq.Data},
	})
	if err != nil {
		t.log.Error("setup selection", sl.User(cq.From.Id), sl.Err(err))
	}
	return nil
}

func (t *TgBot) onAdminCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	cb := admin.Callback{
		ID:     cq.Id,
		UserID: cq.From.Id,
		Data:   cq.Data,
	}
	if ref := origin(cq); ref != nil {
		cb.Origin = *ref
	} else {
		cb.Origin = chat.MessageRef{ChatID: cq.From.Id}
	}
	if err := t.console.Callback(context.Background(), cb); err != nil {
		t.log.Warn("admin callback", sl.User(cq.From.Id), sl.Err(err))
	}
	return nil
}

func (t *TgBot) onLoading(_ *tgbotapi.Bot, ctx *ext.Context) error {
	if err := t.redirect.LoadingPressed(context.Background(), ctx.CallbackQuery.Id); err != nil {
		t.log.Debug("answer loading", sl.Err(err))
	}
	return nil
}

func parseChannel(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
