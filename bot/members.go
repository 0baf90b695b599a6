package bot

import (
	"context"
	"xtvredirect/internal/setup"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// onMyChatMember turns the bot's own status changes into setup events.
func (t *TgBot) onMyChatMember(_ *tgbotapi.Bot, ctx *ext.Context) error {
	u := ctx.MyChatMember
	if u == nil {
		return nil
	}
	ev := setup.Promoted{
		ChannelID:    u.Chat.Id,
		ChannelTitle: u.Chat.Title,
		ActorID:      u.From.Id,
		ActorName:    u.From.FirstName,
		OldStatus:    u.OldChatMember.MergeChatMember().Status,
		NewStatus:    u.NewChatMember.MergeChatMember().Status,
	}
	if err := t.setup.Handle(context.Background(), setup.Input{ActorID: u.From.Id, Event: ev}); err != nil {
		t.log.Error("membership change", sl.Chat(u.Chat.Id), sl.Err(err))
	}
	return nil
}

// onText offers private text to the regeneration prompt first, then to setup.
func (t *TgBot) onText(_ *tgbotapi.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	user := ctx.EffectiveUser
	if msg == nil || user == nil {
		return nil
	}
	c := context.Background()

	consumed, err := t.console.Text(c, user.Id, msg.Chat.Id, msg.Text)
	if err != nil {
		t.log.Warn("admin text", sl.User(user.Id), sl.Err(err))
	}
	if consumed {
		return nil
	}
	if err = t.setup.Handle(c, setup.Input{ActorID: user.Id, Event: setup.Text{Text: msg.Text}}); err != nil {
		t.log.Error("setup text", sl.User(user.Id), sl.Err(err))
	}
	return nil
}
