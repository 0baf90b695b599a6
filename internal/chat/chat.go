// Package chat describes the messaging transport the flows talk to,
// independent of the Telegram client library that implements it.
package chat

import (
	"context"
	"strings"
)

// Button is either a callback button (Data) or a link button (URL).
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is an inline keyboard, one slice per row.
type Keyboard [][]Button

// Row is a convenience for building single-row keyboards.
func Row(buttons ...Button) []Button {
	return buttons
}

// MessageRef identifies a sent message; Photo selects caption editing over text editing.
type MessageRef struct {
	ChatID    int64
	MessageID int64
	Photo     bool
}

// EditOutcome is the result of an in-place edit.
type EditOutcome int

const (
	Edited EditOutcome = iota
	// Unchanged means the platform rejected the edit because nothing differs.
	Unchanged
	Failed
)

func (o EditOutcome) String() string {
	switch o {
	case Edited:
		return "edited"
	case Unchanged:
		return "unchanged"
	default:
		return "failed"
	}
}

// InviteOptions configures a channel invite link; MemberLimit 0 means unlimited.
type InviteOptions struct {
	Name        string
	MemberLimit int64
}

// Membership statuses reported by MemberStatus.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

// IsMember reports whether status means the user can already see the channel.
func IsMember(status string) bool {
	switch status {
	case StatusCreator, StatusAdministrator, StatusMember, StatusRestricted:
		return true
	}
	return false
}

// Transport is everything the setup, redirect and admin flows need from the messaging platform.
// Texts are HTML.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, kb Keyboard) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, kb Keyboard) (EditOutcome, error)
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	MemberStatus(ctx context.Context, chatID, userID int64) (string, error)
	CreateInviteLink(ctx context.Context, chatID int64, opts InviteOptions) (string, error)
	ChatTitle(ctx context.Context, chatID int64) (string, error)
	LeaveChat(ctx context.Context, chatID int64) error
	BotUsername() string
}

// DeepLink builds the public entry point for a redirect code.
func DeepLink(botUsername, code string) string {
	return "https://t.me/" + strings.TrimPrefix(botUsername, "@") + "?start=" + code
}
