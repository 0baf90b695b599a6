// Package admin is the operator's dashboard: totals, a paged listing of
// redirect links and the invite regeneration dialog.
package admin

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
	"xtvredirect/lib/sl"
)

const (
	PageSize = 10

	CbStats            = "admin_stats"
	CbList             = "admin_list"
	CbRegenerate       = "admin_regenerate"
	CbCancelRegenerate = "cancel_regenerate"

	// an abandoned regeneration prompt stops capturing text after this long
	awaitTTL = 30 * time.Minute
)

type Store interface {
	GetRedirect(ctx context.Context, code string) (*entity.RedirectRecord, error)
	UpdateInviteLink(ctx context.Context, code, link string) error
	ListRedirects(ctx context.Context, skip, limit int64) ([]*entity.RedirectRecord, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

// Callback is a button press addressed to the console.
type Callback struct {
	ID     string
	UserID int64
	Data   string
	Origin chat.MessageRef
}

type Console struct {
	tr       chat.Transport
	store    Store
	operator int64
	now      func() time.Time
	log      *slog.Logger

	mu       sync.Mutex
	awaiting map[int64]time.Time
}

func New(tr chat.Transport, store Store, operatorID int64, log *slog.Logger) *Console {
	return &Console{
		tr:       tr,
		store:    store,
		operator: operatorID,
		now:      time.Now,
		log:      log.With(sl.Module("admin")),
		awaiting: make(map[int64]time.Time),
	}
}

// Dashboard answers /admin. Anyone but the operator gets no reply at all.
func (c *Console) Dashboard(ctx context.Context, userID, chatID int64) error {
	if userID != c.operator {
		c.log.Debug("dashboard request ignored", sl.User(userID))
		return nil
	}
	text, err := c.dashboardText(ctx)
	if err != nil {
		c.log.Error("load stats", sl.Err(err))
		text = textStoreError
	}
	_, err = c.tr.Send(ctx, chatID, text, dashboardKeyboard())
	return err
}

// Callback handles admin_* and cancel_regenerate buttons.
func (c *Console) Callback(ctx context.Context, cb Callback) error {
	if cb.UserID != c.operator {
		c.log.Warn("unauthorized admin callback", sl.User(cb.UserID), slog.String("data", cb.Data))
		return c.tr.AnswerCallback(ctx, cb.ID, "Unauthorized", true)
	}
	if err := c.tr.AnswerCallback(ctx, cb.ID, "", false); err != nil {
		c.log.Debug("answer callback", sl.Err(err))
	}

	switch {
	case cb.Data == CbStats:
		text, err := c.dashboardText(ctx)
		if err != nil {
			c.log.Error("load stats", sl.Err(err))
			text = textStoreError
		}
		c.edit(ctx, cb.Origin, text, dashboardKeyboard())

	case cb.Data == CbList || strings.HasPrefix(cb.Data, CbList+"|"):
		page, _ := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(cb.Data, CbList), "|"))
		text, kb, err := c.listPage(ctx, page)
		if err != nil {
			c.log.Error("list redirects", sl.Err(err))
			text, kb = textStoreError, backKeyboard()
		}
		c.edit(ctx, cb.Origin, text, kb)

	case cb.Data == CbRegenerate:
		c.setAwaiting(cb.UserID, true)
		c.edit(ctx, cb.Origin, textRegeneratePrompt, cancelKeyboard())

	case cb.Data == CbCancelRegenerate:
		c.setAwaiting(cb.UserID, false)
		c.edit(ctx, cb.Origin, textRegenerateCancelled, nil)

	default:
		c.log.Debug("unknown admin callback", slog.String("data", cb.Data))
	}
	return nil
}

// Text consumes a message while a regeneration prompt is open; consumed is
// false when the message is not meant for the console.
func (c *Console) Text(ctx context.Context, userID, chatID int64, text string) (consumed bool, err error) {
	if userID != c.operator || !c.isAwaiting(userID) {
		return false, nil
	}
	code := strings.TrimSpace(text)
	log := c.log.With(sl.Secret("code", code))

	rec, err := c.store.GetRedirect(ctx, code)
	if err != nil {
		log.Error("get redirect", sl.Err(err))
		c.setAwaiting(userID, false)
		return true, c.reply(ctx, chatID, textStoreError)
	}
	if rec == nil {
		return true, c.reply(ctx, chatID, textInvalidCode)
	}

	c.setAwaiting(userID, false)
	if !rec.HasChannel() {
		return true, c.reply(ctx, chatID, textNoChannel)
	}

	link, err := c.tr.CreateInviteLink(ctx, rec.ChannelId, chat.InviteOptions{Name: "Regen Link: " + rec.SeriesName})
	if err != nil {
		log.Error("regenerate invite", sl.Chat(rec.ChannelId), sl.Err(err))
		return true, c.reply(ctx, chatID, mintFailedText(err))
	}
	if err = c.store.UpdateInviteLink(ctx, code, link); err != nil {
		log.Error("update invite link", sl.Err(err))
		return true, c.reply(ctx, chatID, textUpdateFailed)
	}
	log.Info("invite link regenerated", sl.Chat(rec.ChannelId))
	return true, c.reply(ctx, chatID, regeneratedText(rec.SeriesName, link, code))
}

// Cancel closes an open regeneration prompt in response to /cancel.
func (c *Console) Cancel(ctx context.Context, userID, chatID int64) bool {
	if userID != c.operator || !c.isAwaiting(userID) {
		return false
	}
	c.setAwaiting(userID, false)
	if err := c.reply(ctx, chatID, textRegenerateCancelled); err != nil {
		c.log.Error("send cancel", sl.Err(err))
	}
	return true
}

func (c *Console) dashboardText(ctx context.Context) (string, error) {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return "", err
	}
	return dashboardText(stats), nil
}

func (c *Console) listPage(ctx context.Context, page int) (string, chat.Keyboard, error) {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return "", nil, err
	}
	pages := int((stats.TotalLinks + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	records, err := c.store.ListRedirects(ctx, int64(page*PageSize), PageSize)
	if err != nil {
		return "", nil, err
	}
	return listText(records, page, pages, c.now()), listKeyboard(page, pages), nil
}

func (c *Console) edit(ctx context.Context, ref chat.MessageRef, text string, kb chat.Keyboard) {
	outcome, err := c.tr.Edit(ctx, ref, text, kb)
	if outcome == chat.Failed {
		c.log.Warn("edit admin message", sl.Err(err))
	}
}

func (c *Console) reply(ctx context.Context, chatID int64, text string) error {
	_, err := c.tr.Send(ctx, chatID, text, nil)
	return err
}

func (c *Console) setAwaiting(userID int64, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.awaiting[userID] = c.now().Add(awaitTTL)
		return
	}
	delete(c.awaiting, userID)
}

func (c *Console) isAwaiting(userID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.awaiting[userID]
	if !ok {
		return false
	}
	if !c.now().Before(until) {
		delete(c.awaiting, userID)
		return false
	}
	return true
}
