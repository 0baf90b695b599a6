package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"xtvredirect/internal/chat"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const parseMode = "HTML"

// Transport implements chat.Transport on top of the Telegram Bot API.
// The calls are synchronous; ctx is accepted for the interface and not forwarded.
type Transport struct {
	api *tgbotapi.Bot
	log *slog.Logger
}

var _ chat.Transport = (*Transport)(nil)

func NewTransport(api *tgbotapi.Bot, log *slog.Logger) *Transport {
	return &Transport{
		api: api,
		log: log.With(sl.Module("transport")),
	}
}

func (tr *Transport) Send(_ context.Context, chatID int64, text string, kb chat.Keyboard) (chat.MessageRef, error) {
	opts := &tgbotapi.SendMessageOpts{ParseMode: parseMode}
	if len(kb) > 0 {
		opts.ReplyMarkup = inlineKeyboard(kb)
	}
	msg, err := tr.api.SendMessage(chatID, text, opts)
	if err != nil {
		return chat.MessageRef{}, fmt.Errorf("send message: %w", err)
	}
	return chat.MessageRef{ChatID: chatID, MessageID: msg.MessageId}, nil
}

func (tr *Transport) SendPhoto(_ context.Context, chatID int64, photoURL, caption string, kb chat.Keyboard) (chat.MessageRef, error) {
	opts := &tgbotapi.SendPhotoOpts{Caption: caption, ParseMode: parseMode}
	if len(kb) > 0 {
		opts.ReplyMarkup = inlineKeyboard(kb)
	}
	msg, err := tr.api.SendPhoto(chatID, tgbotapi.InputFileByURL(photoURL), opts)
	if err != nil {
		return chat.MessageRef{}, fmt.Errorf("send photo: %w", err)
	}
	return chat.MessageRef{ChatID: chatID, MessageID: msg.MessageId, Photo: true}, nil
}

// Edit rewrites the caption of photo messages and the text of everything else.
func (tr *Transport) Edit(_ context.Context, ref chat.MessageRef, text string, kb chat.Keyboard) (chat.EditOutcome, error) {
	var err error
	if ref.Photo {
		_, _, err = tr.api.EditMessageCaption(&tgbotapi.EditMessageCaptionOpts{
			ChatId:      ref.ChatID,
			MessageId:   ref.MessageID,
			Caption:     text,
			ParseMode:   parseMode,
			ReplyMarkup: inlineKeyboard(kb),
		})
	} else {
		_, _, err = tr.api.EditMessageText(text, &tgbotapi.EditMessageTextOpts{
			ChatId:      ref.ChatID,
			MessageId:   ref.MessageID,
			ParseMode:   parseMode,
			ReplyMarkup: inlineKeyboard(kb),
		})
	}
	return editOutcome(err)
}

func (tr *Transport) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	_, err := tr.api.AnswerCallbackQuery(callbackID, &tgbotapi.AnswerCallbackQueryOpts{
		Text:      text,
		ShowAlert: alert,
	})
	if err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (tr *Transport) MemberStatus(_ context.Context, chatID, userID int64) (string, error) {
	member, err := tr.api.GetChatMember(chatID, userID, nil)
	if err != nil {
		return "", fmt.Errorf("get chat member: %w", err)
	}
	return member.MergeChatMember().Status, nil
}

func (tr *Transport) CreateInviteLink(_ context.Context, chatID int64, opts chat.InviteOptions) (string, error) {
	link, err := tr.api.CreateChatInviteLink(chatID, &tgbotapi.CreateChatInviteLinkOpts{
		Name:        opts.Name,
		MemberLimit: opts.MemberLimit,
	})
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}
	return link.InviteLink, nil
}

func (tr *Transport) ChatTitle(_ context.Context, chatID int64) (string, error) {
	c, err := tr.api.GetChat(chatID, nil)
	if err != nil {
		return "", fmt.Errorf("get chat: %w", err)
	}
	return c.Title, nil
}

func (tr *Transport) LeaveChat(_ context.Context, chatID int64) error {
	if _, err := tr.api.LeaveChat(chatID, nil); err != nil {
		return fmt.Errorf("leave chat: %w", err)
	}
	return nil
}

func (tr *Transport) BotUsername() string {
	return tr.api.Username
}

// inlineKeyboard converts kb; an empty keyboard removes the buttons from an edited message.
func inlineKeyboard(kb chat.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			button := tgbotapi.InlineKeyboardButton{Text: b.Text}
			if b.URL != "" {
				button.Url = b.URL
			} else {
				button.CallbackData = b.Data
			}
			buttons = append(buttons, button)
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func editOutcome(err error) (chat.EditOutcome, error) {
	switch {
	case err == nil:
		return chat.Edited, nil
	case strings.Contains(err.Error(), "message is not modified"):
		return chat.Unchanged, nil
	default:
		return chat.Failed, fmt.Errorf("edit message: %w", err)
	}
}
