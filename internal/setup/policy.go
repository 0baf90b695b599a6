package setup

import (
	"fmt"
	"strings"
)

// Policy decides who converses about a freshly promoted channel and how the
// conversation opens.
type Policy interface {
	Name() string
	// Driver returns the identity whose session handles ev; ok is false when nobody should.
	Driver(ev Promoted, operatorID int64) (id int64, ok bool)
	// Begin opens the conversation. A nil session leaves the driver's current session untouched.
	Begin(ev Promoted) (*Session, []Effect)
}

// ApprovalPolicy asks the operator to accept or decline every new channel,
// whoever promoted the bot.
type ApprovalPolicy struct{}

func (ApprovalPolicy) Name() string { return "approval" }

func (ApprovalPolicy) Driver(_ Promoted, operatorID int64) (int64, bool) {
	return operatorID, operatorID != 0
}

func (ApprovalPolicy) Begin(ev Promoted) (*Session, []Effect) {
	return nil, []Effect{Reply{Text: approvalRequestText(ev), Keyboard: approvalKeyboard(ev.ChannelID)}}
}

// SelfServicePolicy lets the administrator who promoted the bot run setup
// directly, as long as that administrator is the operator.
type SelfServicePolicy struct{}

func (SelfServicePolicy) Name() string { return "self" }

func (SelfServicePolicy) Driver(ev Promoted, operatorID int64) (int64, bool) {
	return ev.ActorID, ev.ActorID != 0 && ev.ActorID == operatorID
}

func (SelfServicePolicy) Begin(ev Promoted) (*Session, []Effect) {
	s := &Session{
		State:        StateAwaitingApproval,
		ChannelID:    ev.ChannelID,
		ChannelTitle: ev.ChannelTitle,
	}
	return s, []Effect{MintInvite{ChannelID: ev.ChannelID, Name: inviteName}}
}

// ParsePolicy maps the configuration value to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "approval":
		return ApprovalPolicy{}, nil
	case "self", "self-service":
		return SelfServicePolicy{}, nil
	}
	return nil, fmt.Errorf("unknown setup policy %q", name)
}
