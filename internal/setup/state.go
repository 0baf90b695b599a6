// Package setup drives the conversation that turns a channel the bot was
// promoted in into a stored redirect record.
//
// The conversation is a pure transition function over explicit states
// (Transition) plus a runner (Machine) that performs the effects it returns
// and feeds their outcomes back in as events:
//
//	promoted ─▶ AWAITING_APPROVAL ─▶ SERIES_NAME ⇄ SERIES_SELECTION ─▶ COMPLETE
//	                        └───────────────┴──────────┴─────────────▶ CANCELLED
package setup

import (
	"strings"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
)

type State int

const (
	StateIdle State = iota
	// StateAwaitingApproval: a channel is chosen, its title and invite link are being resolved.
	StateAwaitingApproval
	StateSeriesName
	StateSeriesSelection
	StateComplete
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitingApproval:
		return "AWAITING_APPROVAL"
	case StateSeriesName:
		return "SERIES_NAME"
	case StateSeriesSelection:
		return "SERIES_SELECTION"
	case StateComplete:
		return "COMPLETE"
	case StateCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

func (s State) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// Session is the per-operator conversation state.
type Session struct {
	State        State                 `json:"state"`
	ChannelID    int64                 `json:"channel_id"`
	ChannelTitle string                `json:"channel_title"`
	InviteLink   string                `json:"invite_link"`
	Results      []entity.SearchResult `json:"results,omitempty"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Results = append([]entity.SearchResult(nil), s.Results...)
	return &c
}

// Event is anything that can move the conversation.
type Event interface{ event() }

// Promoted is the bot's own membership change in a channel.
type Promoted struct {
	ChannelID    int64
	ChannelTitle string
	ActorID      int64
	ActorName    string
	OldStatus    string
	NewStatus    string
}

// NewlyPromoted is true only when the bot became administrator and was not one before;
// permission tweaks on an existing administrator do not count.
func (p Promoted) NewlyPromoted() bool {
	return p.NewStatus == chat.StatusAdministrator && p.OldStatus != chat.StatusAdministrator
}

// Decision is the operator's answer to an approval request.
type Decision struct {
	Accept    bool
	ChannelID int64
}

// Text is a free-text message from the operator.
type Text struct{ Text string }

// Selection is a button press on the search result list.
type Selection struct{ Data string }

// Cancel is the cancel button or command.
type Cancel struct{}

// Result events, produced by the runner after performing an effect.
type (
	ChannelResolved struct {
		ChannelID int64
		Title     string
	}
	ChannelUnreachable struct {
		ChannelID int64
		Err       error
	}
	InviteMinted struct{ Link string }
	InviteFailed struct{ Err error }
	SearchDone   struct {
		Query   string
		Results []entity.SearchResult
	}
	Persisted struct {
		Code   string
		Link   string
		Series string
	}
	PersistFailed struct{ Err error }
)

func (Promoted) event()           {}
func (Decision) event()           {}
func (Text) event()               {}
func (Selection) event()          {}
func (Cancel) event()             {}
func (ChannelResolved) event()    {}
func (ChannelUnreachable) event() {}
func (InviteMinted) event()       {}
func (InviteFailed) event()       {}
func (SearchDone) event()         {}
func (Persisted) event()          {}
func (PersistFailed) event()      {}

// Effect is a side effect requested by Transition.
type Effect interface{ effect() }

type (
	// Reply sends a new message to the operator.
	Reply struct {
		Text     string
		Keyboard chat.Keyboard
	}
	// EditOrigin rewrites the message whose button started the current step,
	// or sends a new one when the step had no such message.
	EditOrigin struct {
		Text     string
		Keyboard chat.Keyboard
	}
	ResolveChannel struct{ ChannelID int64 }
	MintInvite     struct {
		ChannelID int64
		Name      string
	}
	Search  struct{ Query string }
	Persist struct{ Record entity.RedirectRecord }
	// LeaveChannel removes the bot from a declined channel.
	LeaveChannel struct{ ChannelID int64 }
)

func (Reply) effect()          {}
func (EditOrigin) effect()     {}
func (ResolveChannel) effect() {}
func (MintInvite) effect()     {}
func (Search) effect()         {}
func (Persist) effect()        {}
func (LeaveChannel) effect()   {}

// Callback data understood by the setup flow.
const (
	CbAccept  = "setup_accept|"
	CbDecline = "setup_decline|"
	CbSelect  = "select_idx|"
	CbCancel  = "cancel_setup"
)

const (
	maxCandidates = 5
	inviteName    = "XTV Redirect Link"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
