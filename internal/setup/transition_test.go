package setup

import (
	"testing"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promoted(old, new string) Promoted {
	return Promoted{
		ChannelID:    -100123,
		ChannelTitle: "Rookie Vault",
		ActorID:      42,
		ActorName:    "Alice",
		OldStatus:    old,
		NewStatus:    new,
	}
}

func sampleResults(n int) []entity.SearchResult {
	out := make([]entity.SearchResult, n)
	for i := range out {
		out[i] = entity.SearchResult{CatalogId: int64(1000 + i), MediaType: entity.MediaSeries, Title: "Show", Year: "2018"}
	}
	return out
}

func TestTransition_PromotionOnlyFromNonAdmin(t *testing.T) {
	for _, old := range []string{chat.StatusLeft, chat.StatusMember, chat.StatusKicked} {
		next, effects := Transition(ApprovalPolicy{}, nil, promoted(old, chat.StatusAdministrator))
		assert.Nil(t, next)
		require.Len(t, effects, 1, old)
		reply, ok := effects[0].(Reply)
		require.True(t, ok)
		assert.Contains(t, reply.Text, "Rookie Vault")
		assert.Contains(t, reply.Text, "-100123")
		require.Len(t, reply.Keyboard, 1)
		assert.Equal(t, "setup_accept|-100123", reply.Keyboard[0][0].Data)
		assert.Equal(t, "setup_decline|-100123", reply.Keyboard[0][1].Data)
	}

	for _, ev := range []Promoted{
		promoted(chat.StatusAdministrator, chat.StatusAdministrator),
		promoted(chat.StatusAdministrator, chat.StatusLeft),
		promoted(chat.StatusLeft, chat.StatusMember),
	} {
		next, effects := Transition(ApprovalPolicy{}, nil, ev)
		assert.Nil(t, next)
		assert.Empty(t, effects)
	}
}

func TestTransition_SelfServiceStartsImmediately(t *testing.T) {
	next, effects := Transition(SelfServicePolicy{}, nil, promoted(chat.StatusLeft, chat.StatusAdministrator))
	require.NotNil(t, next)
	assert.Equal(t, StateAwaitingApproval, next.State)
	assert.Equal(t, "Rookie Vault", next.ChannelTitle)
	assert.Equal(t, []Effect{MintInvite{ChannelID: -100123, Name: "XTV Redirect Link"}}, effects)
}

func TestTransition_AcceptResolvesThenMints(t *testing.T) {
	s, effects := Transition(ApprovalPolicy{}, nil, Decision{Accept: true, ChannelID: -1})
	require.NotNil(t, s)
	assert.Equal(t, StateAwaitingApproval, s.State)
	assert.Equal(t, []Effect{ResolveChannel{ChannelID: -1}}, effects)

	s, effects = Transition(ApprovalPolicy{}, s, ChannelResolved{ChannelID: -1, Title: "Vault"})
	assert.Equal(t, "Vault", s.ChannelTitle)
	assert.Equal(t, []Effect{MintInvite{ChannelID: -1, Name: "XTV Redirect Link"}}, effects)

	s, effects = Transition(ApprovalPolicy{}, s, InviteMinted{Link: "https://t.me/+abc"})
	assert.Equal(t, StateSeriesName, s.State)
	assert.Equal(t, "https://t.me/+abc", s.InviteLink)
	require.Len(t, effects, 1)
	assert.Contains(t, effects[0].(EditOrigin).Text, "Setup Started for Vault")
}

func TestTransition_AcceptWhileAnotherSetupIsOpen(t *testing.T) {
	s := &Session{State: StateSeriesSelection, ChannelID: -1, InviteLink: "https://t.me/+abc",
		Results: sampleResults(2)}

	next, effects := Transition(ApprovalPolicy{}, s, Decision{Accept: true, ChannelID: -2})
	assert.Same(t, s, next)
	assert.Equal(t, []Effect{Reply{Text: "⚠️ Finish or /cancel the current setup first."}}, effects)

	next, effects = Transition(ApprovalPolicy{}, s, Decision{Accept: true, ChannelID: -1})
	assert.Same(t, s, next)
	assert.Empty(t, effects)

	next, effects = Transition(SelfServicePolicy{}, s, promoted(chat.StatusLeft, chat.StatusAdministrator))
	assert.Same(t, s, next)
	assert.Equal(t, []Effect{Reply{Text: "⚠️ Finish or /cancel the current setup first."}}, effects)

	done := &Session{State: StateCancelled, ChannelID: -1}
	next, effects = Transition(ApprovalPolicy{}, done, Decision{Accept: true, ChannelID: -2})
	assert.Equal(t, int64(-2), next.ChannelID)
	assert.Equal(t, []Effect{ResolveChannel{ChannelID: -2}}, effects)
}

func TestTransition_DeclineLeaves(t *testing.T) {
	next, effects := Transition(ApprovalPolicy{}, nil, Decision{Accept: false, ChannelID: -7})
	assert.Nil(t, next)
	require.Len(t, effects, 2)
	assert.Equal(t, "❌ Setup declined for channel ID -7.", effects[0].(EditOrigin).Text)
	assert.Equal(t, LeaveChannel{ChannelID: -7}, effects[1])
}

func TestTransition_FailuresCancel(t *testing.T) {
	s := &Session{State: StateAwaitingApproval, ChannelID: -1, ChannelTitle: "Vault"}

	next, effects := Transition(ApprovalPolicy{}, s, ChannelUnreachable{ChannelID: -1})
	assert.Equal(t, StateCancelled, next.State)
	assert.Contains(t, effects[0].(EditOrigin).Text, "Could not access channel -1")

	next, effects = Transition(ApprovalPolicy{}, s, InviteFailed{})
	assert.Equal(t, StateCancelled, next.State)
	assert.Contains(t, effects[0].(EditOrigin).Text, "'Invite Users' permission")
}

func TestTransition_SeriesName(t *testing.T) {
	s := &Session{State: StateSeriesName, ChannelID: -1, InviteLink: "https://t.me/+abc"}

	next, effects := Transition(ApprovalPolicy{}, s, Text{Text: "   "})
	assert.Equal(t, s, next)
	assert.Equal(t, []Effect{Reply{Text: "Please enter a valid series name."}}, effects)

	next, effects = Transition(ApprovalPolicy{}, s, Text{Text: " The Rookie "})
	assert.Equal(t, StateSeriesName, next.State)
	require.Len(t, effects, 2)
	assert.Equal(t, "🔎 Searching for 'The Rookie'...", effects[0].(Reply).Text)
	assert.Equal(t, Search{Query: "The Rookie"}, effects[1])

	next, effects = Transition(ApprovalPolicy{}, s, SearchDone{Query: "x"})
	assert.Equal(t, StateSeriesName, next.State)
	assert.Equal(t, "❌ No results found. Please try another name.", effects[0].(Reply).Text)
}

func TestTransition_ResultsCappedAtFive(t *testing.T) {
	s := &Session{State: StateSeriesName, ChannelID: -1, InviteLink: "https://t.me/+abc"}
	next, effects := Transition(ApprovalPolicy{}, s, SearchDone{Query: "x", Results: sampleResults(8)})
	assert.Equal(t, StateSeriesSelection, next.State)
	assert.Len(t, next.Results, 5)

	reply := effects[0].(Reply)
	require.Len(t, reply.Keyboard, 6)
	assert.Equal(t, "Show (TV)", reply.Keyboard[0][0].Text)
	assert.Equal(t, "select_idx|4", reply.Keyboard[4][0].Data)
	assert.Equal(t, "cancel_setup", reply.Keyboard[5][0].Data)
	// the caller's session is not mutated
	assert.Equal(t, StateSeriesName, s.State)
}

func TestTransition_Selection(t *testing.T) {
	s := &Session{State: StateSeriesSelection, ChannelID: -1, InviteLink: "https://t.me/+abc", Results: sampleResults(2)}

	t.Run("valid", func(t *testing.T) {
		next, effects := Transition(ApprovalPolicy{}, s, Selection{Data: "select_idx|1"})
		assert.Equal(t, StateComplete, next.State)
		require.Len(t, effects, 1)
		rec := effects[0].(Persist).Record
		assert.Equal(t, int64(1001), rec.CatalogId)
		assert.Equal(t, entity.MediaSeries, rec.MediaType)
		assert.Equal(t, int64(-1), rec.ChannelId)
		assert.Equal(t, "https://t.me/+abc", rec.InviteLink)
	})

	for _, data := range []string{"select_idx|2", "select_idx|-1", "select_idx|x"} {
		t.Run(data, func(t *testing.T) {
			next, effects := Transition(ApprovalPolicy{}, s, Selection{Data: data})
			assert.Equal(t, StateSeriesName, next.State)
			assert.Empty(t, next.Results)
			assert.Equal(t, []Effect{EditOrigin{Text: "⚠️ Error selecting series. Please try searching again."}}, effects)
		})
	}

	t.Run("cancel", func(t *testing.T) {
		next, effects := Transition(ApprovalPolicy{}, s, Selection{Data: "cancel_setup"})
		assert.Equal(t, StateCancelled, next.State)
		assert.Equal(t, []Effect{EditOrigin{Text: "❌ Setup cancelled."}}, effects)
	})

	t.Run("missing invite", func(t *testing.T) {
		broken := s.clone()
		broken.InviteLink = ""
		next, effects := Transition(ApprovalPolicy{}, broken, Selection{Data: "select_idx|0"})
		assert.True(t, next.State.Terminal())
		assert.Equal(t, []Effect{EditOrigin{Text: "⚠️ Session expired. Please restart setup."}}, effects)
	})

	t.Run("no session", func(t *testing.T) {
		next, effects := Transition(ApprovalPolicy{}, nil, Selection{Data: "select_idx|0"})
		assert.Nil(t, next)
		assert.Equal(t, []Effect{EditOrigin{Text: "⚠️ Session expired. Please restart setup."}}, effects)
	})
}

func TestTransition_Cancel(t *testing.T) {
	next, effects := Transition(ApprovalPolicy{}, nil, Cancel{})
	assert.Nil(t, next)
	assert.Empty(t, effects)

	next, effects = Transition(ApprovalPolicy{}, &Session{State: StateSeriesName}, Cancel{})
	assert.Equal(t, StateCancelled, next.State)
	assert.Equal(t, []Effect{Reply{Text: "Setup cancelled."}}, effects)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, "approval", p.Name())

	p, err = ParsePolicy("SELF")
	require.NoError(t, err)
	assert.Equal(t, "self", p.Name())

	_, err = ParsePolicy("anyone")
	assert.Error(t, err)
}
