package bot

import (
	"context"
	"log/slog"
	"xtvredirect/internal/redirect"
	"xtvredirect/internal/setup"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// start serves /start and /start <code> deep links.
func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	user := ctx.EffectiveUser
	if user == nil {
		return nil
	}
	req := redirect.Request{
		ChatID: ctx.EffectiveChat.Id,
		UserID: user.Id,
	}
	if args := ctx.Args(); len(args) > 1 {
		req.Code = args[1]
	}

	if err := t.redirect.Start(context.Background(), req); err != nil {
		t.log.Warn("start command",
			sl.User(user.Id),
			slog.Bool("with_code", req.Code != ""),
			sl.Err(err))
	}
	return nil
}

func (t *TgBot) adminCmd(_ *tgbotapi.Bot, ctx *ext.Context) error {
	user := ctx.EffectiveUser
	if user == nil {
		return nil
	}
	if err := t.console.Dashboard(context.Background(), user.Id, ctx.EffectiveChat.Id); err != nil {
		t.log.Warn("admin command", sl.User(user.Id), sl.Err(err))
	}
	return nil
}

// cancel closes whichever operator dialog is open: the regeneration prompt first, then setup.
func (t *TgBot) cancel(_ *tgbotapi.Bot, ctx *ext.Context) error {
	user := ctx.EffectiveUser
	if user == nil {
		return nil
	}
	c := context.Background()
	if t.console.Cancel(c, user.Id, ctx.EffectiveChat.Id) {
		return nil
	}
	if err := t.setup.Handle(c, setup.Input{ActorID: user.Id, Event: setup.Cancel{}}); err != nil {
		t.log.Error("cancel setup", sl.User(user.Id), sl.Err(err))
	}
	return nil
}
