package redirect

import (
	"fmt"
	"html"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
)

const (
	overviewLimit = 300

	// CallbackLoading is the data carried by the disabled loading button.
	CallbackLoading = "loading_wait"

	textInvalidLink = "❌ <b>Invalid or expired link.</b>"
	textPleaseWait  = "Please wait..."

	textWelcomeOperator = "👋 <b>Welcome, Admin!</b>\n\n" +
		"Use /admin to access the dashboard.\n" +
		"To set up a redirect, simply add me as an Admin to a channel."
	textWelcomePublic = "👋 <b>Welcome to XTV Redirect Bot!</b>\n\n" +
		"I am the gatekeeper for XTV Franchise channels.\n" +
		"Please use the link provided in our public channels."
)

// baseCaption is the preview without its closing line; animation frames append their status to it.
func baseCaption(d *entity.Details) string {
	return fmt.Sprintf("<b>%s</b> • %s\n"+
		"⭐️ <b>%s/10</b>  🎭 %s\n\n"+
		"💬 <b>Description:</b>\n"+
		"%s...\n\n",
		html.EscapeString(d.Title),
		html.EscapeString(d.Year),
		d.RatingLabel(),
		html.EscapeString(d.Genres),
		html.EscapeString(truncate(d.Overview, overviewLimit)))
}

func finalCaption(base string) string {
	return base + "Enjoy watching! 🍿"
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func loadingKeyboard() chat.Keyboard {
	return chat.Keyboard{chat.Row(chat.Button{Text: "⏳ Loading...", Data: CallbackLoading})}
}

func joinKeyboard(link string) chat.Keyboard {
	return chat.Keyboard{chat.Row(chat.Button{Text: "🚀 Join Channel", URL: link})}
}
