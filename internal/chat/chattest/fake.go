// Package chattest provides an in-memory chat.Transport that records every call.
package chattest

import (
	"context"
	"fmt"
	"sync"

	"xtvredirect/internal/chat"
)

type Sent struct {
	Ref      chat.MessageRef
	Text     string
	PhotoURL string
	Keyboard chat.Keyboard
}

type EditCall struct {
	Ref      chat.MessageRef
	Text     string
	Keyboard chat.Keyboard
}

type Answer struct {
	CallbackID string
	Text       string
	Alert      bool
}

type InviteCall struct {
	ChatID int64
	Opts   chat.InviteOptions
}

// Fake implements chat.Transport. Error fields make the matching call fail;
// EditOutcomes, when set, are consumed in order by Edit.
type Fake struct {
	mu sync.Mutex

	Username     string
	Statuses     map[int64]string
	Titles       map[int64]string
	EditOutcomes []chat.EditOutcome

	SendErr   error
	StatusErr error
	InviteErr error
	TitleErr  error
	LeaveErr  error

	Sent    []Sent
	Edits   []EditCall
	Answers []Answer
	Invites []InviteCall
	Left    []int64

	nextID int64
}

func New() *Fake {
	return &Fake{
		Username: "xtv_bot",
		Statuses: make(map[int64]string),
		Titles:   make(map[int64]string),
	}
}

var _ chat.Transport = (*Fake)(nil)

func (f *Fake) Send(_ context.Context, chatID int64, text string, kb chat.Keyboard) (chat.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return chat.MessageRef{}, f.SendErr
	}
	f.nextID++
	ref := chat.MessageRef{ChatID: chatID, MessageID: f.nextID}
	f.Sent = append(f.Sent, Sent{Ref: ref, Text: text, Keyboard: kb})
	return ref, nil
}

func (f *Fake) SendPhoto(_ context.Context, chatID int64, photoURL, caption string, kb chat.Keyboard) (chat.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return chat.MessageRef{}, f.SendErr
	}
	f.nextID++
	ref := chat.MessageRef{ChatID: chatID, MessageID: f.nextID, Photo: true}
	f.Sent = append(f.Sent, Sent{Ref: ref, Text: caption, PhotoURL: photoURL, Keyboard: kb})
	return ref, nil
}

func (f *Fake) Edit(_ context.Context, ref chat.MessageRef, text string, kb chat.Keyboard) (chat.EditOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, EditCall{Ref: ref, Text: text, Keyboard: kb})
	if len(f.EditOutcomes) == 0 {
		return chat.Edited, nil
	}
	outcome := f.EditOutcomes[0]
	f.EditOutcomes = f.EditOutcomes[1:]
	if outcome == chat.Failed {
		return outcome, fmt.Errorf("edit rejected")
	}
	return outcome, nil
}

func (f *Fake) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answers = append(f.Answers, Answer{CallbackID: callbackID, Text: text, Alert: alert})
	return nil
}

func (f *Fake) MemberStatus(_ context.Context, chatID, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatusErr != nil {
		return "", f.StatusErr
	}
	status, ok := f.Statuses[userID]
	if !ok {
		return chat.StatusLeft, nil
	}
	return status, nil
}

func (f *Fake) CreateInviteLink(_ context.Context, chatID int64, opts chat.InviteOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InviteErr != nil {
		return "", f.InviteErr
	}
	f.Invites = append(f.Invites, InviteCall{ChatID: chatID, Opts: opts})
	return fmt.Sprintf("https://t.me/+minted%d", len(f.Invites)), nil
}

func (f *Fake) ChatTitle(_ context.Context, chatID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TitleErr != nil {
		return "", f.TitleErr
	}
	return f.Titles[chatID], nil
}

func (f *Fake) LeaveChat(_ context.Context, chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LeaveErr != nil {
		return f.LeaveErr
	}
	f.Left = append(f.Left, chatID)
	return nil
}

func (f *Fake) BotUsername() string {
	return f.Username
}

// LastSent returns the most recent Send/SendPhoto, or a zero value.
func (f *Fake) LastSent() Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return Sent{}
	}
	return f.Sent[len(f.Sent)-1]
}

// LastEdit returns the most recent Edit, or a zero value.
func (f *Fake) LastEdit() EditCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Edits) == 0 {
		return EditCall{}
	}
	return f.Edits[len(f.Edits)-1]
}

// Calls is the number of outbound messages, edits and invites, handy for "no side effects" checks.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent) + len(f.Edits) + len(f.Invites) + len(f.Left) + len(f.Answers)
}
