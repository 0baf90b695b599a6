package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
	"xtvredirect/lib/keygen"
	"xtvredirect/lib/sl"
)

// codeAttempts bounds regeneration when a fresh code collides with a stored one.
const codeAttempts = 3

type Catalog interface {
	Search(ctx context.Context, query string) ([]entity.SearchResult, error)
}

type Store interface {
	CreateRedirect(ctx context.Context, rec *entity.RedirectRecord) error
}

// Input is one inbound event together with who caused it and, for button
// presses, the message that carried the button.
type Input struct {
	ActorID int64
	Origin  *chat.MessageRef
	Event   Event
}

// Machine runs the setup conversation: it loads the session, applies
// Transition, performs the effects and stores the result. Inputs for the
// same session are serialised.
type Machine struct {
	tr       chat.Transport
	catalog  Catalog
	store    Store
	sessions SessionStore
	policy   Policy
	operator int64
	newCode  func() string
	now      func() time.Time
	log      *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(tr chat.Transport, catalog Catalog, store Store, sessions SessionStore, policy Policy, operatorID int64, log *slog.Logger) *Machine {
	if policy == nil {
		policy = ApprovalPolicy{}
	}
	return &Machine{
		tr:       tr,
		catalog:  catalog,
		store:    store,
		sessions: sessions,
		policy:   policy,
		operator: operatorID,
		newCode:  func() string { return keygen.Generate(keygen.DefaultLength) },
		now:      time.Now,
		log:      log.With(sl.Module("setup"), slog.String("policy", policy.Name())),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// SetCodeGenerator replaces the redirect code source.
func (m *Machine) SetCodeGenerator(gen func() string) {
	m.newCode = gen
}

// Active reports whether key has a conversation in progress.
func (m *Machine) Active(ctx context.Context, key int64) bool {
	s, err := m.sessions.Get(ctx, key)
	if err != nil {
		m.log.Warn("load session", sl.User(key), sl.Err(err))
		return false
	}
	return s != nil && !s.State.Terminal()
}

// Handle applies one input. Inputs that do not concern any conversation are
// dropped silently; errors are returned only when session storage fails.
func (m *Machine) Handle(ctx context.Context, in Input) error {
	key := in.ActorID
	if p, ok := in.Event.(Promoted); ok {
		if !p.NewlyPromoted() {
			m.log.Debug("membership change ignored",
				sl.Chat(p.ChannelID),
				slog.String("old", p.OldStatus),
				slog.String("new", p.NewStatus))
			return nil
		}
		m.log.Info("bot promoted",
			sl.Chat(p.ChannelID),
			sl.User(p.ActorID),
			slog.String("title", p.ChannelTitle))
		key, ok = m.policy.Driver(p, m.operator)
		if !ok {
			m.log.Warn("promotion by non-operator ignored", sl.Chat(p.ChannelID), sl.User(p.ActorID))
			return nil
		}
	} else if in.ActorID != m.operator {
		m.log.Debug("input from non-operator ignored", sl.User(in.ActorID), slog.String("event", fmt.Sprintf("%T", in.Event)))
		return nil
	}

	lock := m.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.sessions.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	before := stateOf(s)

	r := &run{key: key, origin: in.Origin}
	next := m.step(ctx, r, s, in.Event)

	if next == nil || next.State.Terminal() {
		if s == nil {
			return nil
		}
		m.log.Debug("session closed", sl.User(key), slog.String("from", before.String()), slog.String("to", stateOf(next).String()))
		if err = m.sessions.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	}
	next.UpdatedAt = m.now()
	if before != next.State {
		m.log.Debug("session moved", sl.User(key), slog.String("from", before.String()), slog.String("to", next.State.String()))
	}
	if err = m.sessions.Put(ctx, key, next); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

type run struct {
	key    int64
	origin *chat.MessageRef
}

func (m *Machine) step(ctx context.Context, r *run, s *Session, ev Event) *Session {
	next, effects := Transition(m.policy, s, ev)
	for _, eff := range effects {
		if follow := m.perform(ctx, r, eff); follow != nil {
			next = m.step(ctx, r, next, follow)
		}
	}
	return next
}

// perform executes one effect and returns the event describing its outcome, if any.
func (m *Machine) perform(ctx context.Context, r *run, eff Effect) Event {
	switch e := eff.(type) {

	case Reply:
		if _, err := m.tr.Send(ctx, r.key, e.Text, e.Keyboard); err != nil {
			m.log.Error("send reply", sl.User(r.key), sl.Err(err))
		}

	case EditOrigin:
		if r.origin == nil {
			ref, err := m.tr.Send(ctx, r.key, e.Text, e.Keyboard)
			if err != nil {
				m.log.Error("send message", sl.User(r.key), sl.Err(err))
				return nil
			}
			r.origin = &ref
			return nil
		}
		outcome, err := m.tr.Edit(ctx, *r.origin, e.Text, e.Keyboard)
		if outcome == chat.Failed {
			m.log.Warn("edit message", sl.User(r.key), sl.Err(err))
		}

	case ResolveChannel:
		title, err := m.tr.ChatTitle(ctx, e.ChannelID)
		if err != nil {
			m.log.Warn("channel unreachable", sl.Chat(e.ChannelID), sl.Err(err))
			return ChannelUnreachable{ChannelID: e.ChannelID, Err: err}
		}
		return ChannelResolved{ChannelID: e.ChannelID, Title: title}

	case MintInvite:
		link, err := m.tr.CreateInviteLink(ctx, e.ChannelID, chat.InviteOptions{Name: e.Name})
		if err != nil {
			m.log.Error("create invite link", sl.Chat(e.ChannelID), sl.Err(err))
			return InviteFailed{Err: err}
		}
		return InviteMinted{Link: link}

	case Search:
		results, err := m.catalog.Search(ctx, e.Query)
		if err != nil {
			m.log.Warn("catalog search", slog.String("query", e.Query), sl.Err(err))
			results = nil
		}
		return SearchDone{Query: e.Query, Results: results}

	case Persist:
		return m.persist(ctx, e.Record)

	case LeaveChannel:
		if err := m.tr.LeaveChat(ctx, e.ChannelID); err != nil {
			m.log.Warn("leave channel", sl.Chat(e.ChannelID), sl.Err(err))
		}
	}
	return nil
}

func (m *Machine) persist(ctx context.Context, rec entity.RedirectRecord) Event {
	var err error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		rec.Code = m.newCode()
		err = m.store.CreateRedirect(ctx, &rec)
		if err == nil {
			m.log.Info("redirect created",
				sl.Secret("code", rec.Code),
				sl.Chat(rec.ChannelId),
				slog.String("series", rec.SeriesName))
			return Persisted{
				Code:   rec.Code,
				Link:   chat.DeepLink(m.tr.BotUsername(), rec.Code),
				Series: rec.SeriesName,
			}
		}
		if !errors.Is(err, entity.ErrDuplicateCode) {
			break
		}
		m.log.Warn("redirect code collision", slog.Int("attempt", attempt+1))
	}
	m.log.Error("create redirect", sl.Chat(rec.ChannelId), sl.Err(err))
	return PersistFailed{Err: err}
}

func (m *Machine) lockFor(key int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

func stateOf(s *Session) State {
	if s == nil {
		return StateIdle
	}
	return s.State
}
