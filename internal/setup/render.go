package setup

import (
	"fmt"
	"html"
	"strconv"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
)

const (
	textEnterValidName   = "Please enter a valid series name."
	textNoResults        = "❌ No results found. Please try another name."
	textSelectSeries     = "Select the correct series from the list below:"
	textSelectionError   = "⚠️ Error selecting series. Please try searching again."
	textSessionExpired   = "⚠️ Session expired. Please restart setup."
	textCancelled        = "❌ Setup cancelled."
	textCancelledCommand = "Setup cancelled."
	textDatabaseError    = "❌ Database Error. Please try again."
	textSetupBusy        = "⚠️ Finish or /cancel the current setup first."
)

func approvalRequestText(ev Promoted) string {
	return fmt.Sprintf("🚨 <b>New Channel Setup Request</b>\n\n"+
		"📺 <b>Channel:</b> %s\n"+
		"🆔 <b>ID:</b> <code>%d</code>\n"+
		"👤 <b>Added by:</b> %s (<code>%d</code>)\n\n"+
		"Do you want to configure a redirect link for this channel?",
		html.EscapeString(ev.ChannelTitle), ev.ChannelID, html.EscapeString(ev.ActorName), ev.ActorID)
}

func approvalKeyboard(channelID int64) chat.Keyboard {
	id := strconv.FormatInt(channelID, 10)
	return chat.Keyboard{chat.Row(
		chat.Button{Text: "✅ Accept", Data: CbAccept + id},
		chat.Button{Text: "❌ Decline", Data: CbDecline + id},
	)}
}

func declinedText(channelID int64) string {
	return fmt.Sprintf("❌ Setup declined for channel ID %d.", channelID)
}

func unreachableText(channelID int64, err error) string {
	text := fmt.Sprintf("⚠️ Error: Could not access channel %d. Am I still admin?", channelID)
	if err != nil {
		text += "\n" + html.EscapeString(err.Error())
	}
	return text
}

func inviteFailedText(title string) string {
	return fmt.Sprintf("⚠️ Error setting up redirect for <b>%s</b>: Could not create invite link.\n"+
		"Ensure I have 'Invite Users' permission and try again.", html.EscapeString(title))
}

func setupStartedText(title, link string) string {
	return fmt.Sprintf("🚀 <b>Setup Started for %s</b>\n\n"+
		"🔗 <b>Invite Link:</b> %s\n\n"+
		"Please tell me the <b>Series Name</b> for this channel (e.g., 'The Rookie').",
		html.EscapeString(title), link)
}

func searchingText(query string) string {
	return fmt.Sprintf("🔎 Searching for '%s'...", html.EscapeString(query))
}

func resultsKeyboard(results []entity.SearchResult) chat.Keyboard {
	kb := make(chat.Keyboard, 0, len(results)+1)
	for i, r := range results {
		kb = append(kb, chat.Row(chat.Button{
			Text: fmt.Sprintf("%s (%s)", r.Title, r.MediaType.Label()),
			Data: CbSelect + strconv.Itoa(i),
		}))
	}
	return append(kb, chat.Row(chat.Button{Text: "❌ Cancel", Data: CbCancel}))
}

func completeText(series, link string) string {
	return fmt.Sprintf("✅ <b>Setup Complete!</b>\n\n"+
		"📺 <b>Series:</b> %s\n"+
		"🔗 <b>Redirect Link:</b>\n%s\n\n"+
		"This link will show the loading animation and redirect to the channel.",
		html.EscapeString(series), link)
}
