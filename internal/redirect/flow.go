// Package redirect serves public deep links: it previews the title behind a
// code, makes the user wait briefly, then hands out an invite to the private channel.
package redirect

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
	"xtvredirect/lib/sl"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Store interface {
	GetRedirect(ctx context.Context, code string) (*entity.RedirectRecord, error)
	IncrementUsage(ctx context.Context, code string, at time.Time) error
}

type Catalog interface {
	Details(ctx context.Context, mediaType entity.MediaType, id int64) (*entity.Details, error)
}

// Request is a /start command, with or without a code.
type Request struct {
	ChatID int64
	UserID int64
	Code   string
}

type Flow struct {
	tr       chat.Transport
	catalog  Catalog
	store    Store
	anim     AnimationPolicy
	limiter  *rate.Limiter
	operator int64
	sleep    func(ctx context.Context, d time.Duration)
	now      func() time.Time
	log      *slog.Logger
}

// New builds the flow. limiter throttles per-user invite minting across all
// redemptions; nil means unlimited.
func New(tr chat.Transport, catalog Catalog, store Store, anim AnimationPolicy, limiter *rate.Limiter, operatorID int64, log *slog.Logger) *Flow {
	if anim == nil {
		anim = Rotating{}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Flow{
		tr:       tr,
		catalog:  catalog,
		store:    store,
		anim:     anim,
		limiter:  limiter,
		operator: operatorID,
		sleep:    sleep,
		now:      time.Now,
		log:      log.With(sl.Module("redirect"), slog.String("animation", anim.Name())),
	}
}

// SetSleep replaces the wait between animation frames.
func (f *Flow) SetSleep(fn func(ctx context.Context, d time.Duration)) {
	f.sleep = fn
}

// sleep waits d, or less if ctx is done first.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Start handles /start. The returned error reports only that the user could
// not be answered at all; every later step degrades instead of failing.
func (f *Flow) Start(ctx context.Context, req Request) error {
	if req.Code == "" {
		return f.welcome(ctx, req)
	}

	log := f.log.With(
		slog.String("trace", uuid.NewString()),
		sl.User(req.UserID),
		sl.Secret("code", req.Code),
	)

	rec, err := f.store.GetRedirect(ctx, req.Code)
	if err != nil {
		log.Error("get redirect", sl.Err(err))
	}
	if rec == nil {
		log.Info("unknown redirect code")
		if _, err = f.tr.Send(ctx, req.ChatID, textInvalidLink, nil); err != nil {
			return fmt.Errorf("send invalid link: %w", err)
		}
		return nil
	}

	details := f.details(ctx, log, rec)
	base := baseCaption(details)
	caption := finalCaption(base)

	var anchor chat.MessageRef
	if details.HasPoster() {
		anchor, err = f.tr.SendPhoto(ctx, req.ChatID, details.PosterURL, caption, loadingKeyboard())
		if err != nil {
			log.Warn("send poster, retrying as text", sl.Err(err))
			anchor, err = f.tr.Send(ctx, req.ChatID, caption, loadingKeyboard())
		}
	} else {
		anchor, err = f.tr.Send(ctx, req.ChatID, caption, loadingKeyboard())
	}
	if err != nil {
		log.Error("send preview", sl.Err(err))
		f.countUsage(ctx, log, rec.Code)
		return fmt.Errorf("send preview: %w", err)
	}

	f.animate(ctx, log, anchor, base)

	link := f.inviteFor(ctx, log, rec, req.UserID)

	outcome, err := f.tr.Edit(ctx, anchor, caption, joinKeyboard(link))
	if outcome == chat.Failed {
		log.Warn("finalize preview", sl.Err(err))
	}

	f.countUsage(ctx, log, rec.Code)
	log.Info("redirect served", slog.String("outcome", outcome.String()))
	return nil
}

// LoadingPressed answers a tap on the loading button.
func (f *Flow) LoadingPressed(ctx context.Context, callbackID string) error {
	return f.tr.AnswerCallback(ctx, callbackID, textPleaseWait, false)
}

func (f *Flow) welcome(ctx context.Context, req Request) error {
	text := textWelcomePublic
	if req.UserID == f.operator {
		text = textWelcomeOperator
	}
	if _, err := f.tr.Send(ctx, req.ChatID, text, nil); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

func (f *Flow) details(ctx context.Context, log *slog.Logger, rec *entity.RedirectRecord) *entity.Details {
	d, err := f.catalog.Details(ctx, rec.MediaType.Canonical(), rec.CatalogId)
	if err != nil || d == nil {
		if err != nil {
			log.Warn("catalog details unavailable", slog.Int64("catalog_id", rec.CatalogId), sl.Err(err))
		}
		return entity.MinimalDetails(rec.SeriesName)
	}
	return d
}

func (f *Flow) animate(ctx context.Context, log *slog.Logger, anchor chat.MessageRef, base string) {
	for _, frame := range f.anim.Frames() {
		if frame.Status != "" {
			outcome, err := f.tr.Edit(ctx, anchor, base+frame.Status, loadingKeyboard())
			if outcome == chat.Failed {
				log.Debug("animation frame", sl.Err(err))
			}
		}
		f.sleep(ctx, frame.Hold)
	}
}

// inviteFor returns the link userID should follow: the record's static link
// for existing members, a single-use link for everyone else.
func (f *Flow) inviteFor(ctx context.Context, log *slog.Logger, rec *entity.RedirectRecord, userID int64) string {
	if !rec.HasChannel() {
		return rec.InviteLink
	}
	status, err := f.tr.MemberStatus(ctx, rec.ChannelId, userID)
	if err != nil {
		log.Warn("member status unavailable, using static link", sl.Chat(rec.ChannelId), sl.Err(err))
		return rec.InviteLink
	}
	if chat.IsMember(status) {
		return rec.InviteLink
	}
	if err = f.limiter.Wait(ctx); err != nil {
		log.Warn("invite throttled, using static link", sl.Err(err))
		return rec.InviteLink
	}
	link, err := f.tr.CreateInviteLink(ctx, rec.ChannelId, chat.InviteOptions{
		Name:        fmt.Sprintf("User %d", userID),
		MemberLimit: 1,
	})
	if err != nil {
		log.Warn("mint single-use invite, using static link", sl.Chat(rec.ChannelId), sl.Err(err))
		return rec.InviteLink
	}
	return link
}

func (f *Flow) countUsage(ctx context.Context, log *slog.Logger, code string) {
	if err := f.store.IncrementUsage(ctx, code, f.now()); err != nil {
		log.Error("increment usage", sl.Err(err))
	}
}
