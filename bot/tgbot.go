// Package bot connects the Telegram Bot API to the setup, redirect and admin flows.
//
//   - tgbot.go     — TgBot lifecycle (Start/Stop) and dispatcher wiring
//   - commands.go  — /start, /admin, /cancel
//   - callbacks.go — inline button presses, routed by callback data prefix
//   - members.go   — the bot's own membership changes and free text
//   - transport.go — chat.Transport over gotgbot
//   - menus.go     — command menus for the operator and everyone else
//   - messaging.go — operator notifications mirrored from the logger
//   - digest.go    — batching of operator notifications
//   - helpers.go   — shared utilities
package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"xtvredirect/internal/admin"
	"xtvredirect/internal/redirect"
	"xtvredirect/internal/setup"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
)

// BotConfig holds Telegram-specific settings.
type BotConfig struct {
	OperatorId int64
	// DigestInterval batches operator notifications; zero sends each one immediately.
	DigestInterval time.Duration
}

// TgBot owns the Telegram connection and routes updates to the flows.
type TgBot struct {
	log       *slog.Logger
	api       *tgbotapi.Bot
	transport *Transport
	updater   *ext.Updater
	digest    *DigestBuffer
	config    BotConfig

	setup    *setup.Machine
	redirect *redirect.Flow
	console  *admin.Console
}

func NewTgBot(apiKey string, log *slog.Logger, cfg BotConfig) (*TgBot, error) {
	tgBot := &TgBot{
		log:    log.With(sl.Module("tgbot")),
		config: cfg,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api
	tgBot.transport = NewTransport(api, log)

	if cfg.DigestInterval > 0 {
		tgBot.digest = NewDigestBuffer(tgBot, cfg.DigestInterval)
		tgBot.digest.StartTicker()
	}
	return tgBot, nil
}

// Transport is the chat.Transport the flows should be built with.
func (t *TgBot) Transport() *Transport {
	return t.transport
}

func (t *TgBot) Username() string {
	return t.api.Username
}

// SetFlows attaches the flows; Start refuses to run without them.
func (t *TgBot) SetFlows(sm *setup.Machine, rf *redirect.Flow, console *admin.Console) {
	t.setup = sm
	t.redirect = rf
	t.console = console
}

func (t *TgBot) Start() error {
	if t.setup == nil || t.redirect == nil || t.console == nil {
		return fmt.Errorf("flows not attached")
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	// Membership changes of the bot itself
	dispatcher.AddHandler(handlers.NewMyChatMember(func(u *tgbotapi.ChatMemberUpdated) bool { return true }, t.onMyChatMember))

	// Commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.start))
	dispatcher.AddHandler(handlers.NewCommand("admin", t.adminCmd))
	dispatcher.AddHandler(handlers.NewCommand("cancel", t.cancel))

	// Callback query handlers
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbSetup), t.onSetupDecision))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(setup.CbSelect), t.onSelection))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Equal(setup.CbCancel), t.onSelection))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(cbAdmin), t.onAdminCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Equal(admin.CbCancelRegenerate), t.onAdminCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Equal(redirect.CallbackLoading), t.onLoading))

	// Free text in private chats, after commands
	dispatcher.AddHandler(handlers.NewMessage(isPrivateText, t.onText))

	t.setDefaultCommands()
	t.setOperatorCommands()

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout:        9,
			AllowedUpdates: []string{"message", "callback_query", "my_chat_member"},
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.Info("polling started", slog.String("username", t.api.Username))

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
	if t.digest != nil {
		t.digest.Stop()
	}
}

func isPrivateText(msg *tgbotapi.Message) bool {
	return msg.Chat.Type == "private" && msg.Text != "" && !strings.HasPrefix(msg.Text, "/")
}
