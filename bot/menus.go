package bot

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Command lists for Telegram's menu button (the "/" icon in the chat input).
// Everyone sees /start; the operator's private chat also gets the console commands.

var commandsPublic = []tgbotapi.BotCommand{
	{Command: "start", Description: "Open a redirect link"},
}

var commandsOperator = []tgbotapi.BotCommand{
	{Command: "start", Description: "Welcome message"},
	{Command: "admin", Description: "Open the admin dashboard"},
	{Command: "cancel", Description: "Cancel the current setup or regeneration"},
}

// setDefaultCommands sets the default bot menu.
func (t *TgBot) setDefaultCommands() {
	_, err := t.api.SetMyCommands(commandsPublic, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeDefault{},
	})
	if err != nil {
		t.log.Warn("setting default commands", "error", err)
	}
}

// setOperatorCommands sets the command menu for the operator's chat.
func (t *TgBot) setOperatorCommands() {
	if t.config.OperatorId == 0 {
		return
	}
	_, err := t.api.SetMyCommands(commandsOperator, &tgbotapi.SetMyCommandsOpts{
		Scope: tgbotapi.BotCommandScopeChat{ChatId: t.config.OperatorId},
	})
	if err != nil {
		t.log.Warn("setting operator commands", "chat_id", t.config.OperatorId, "error", err)
	}
}
