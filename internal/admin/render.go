package admin

import (
	"fmt"
	"html"
	"strings"
	"time"
	"xtvredirect/entity"
	"xtvredirect/internal/chat"
	"xtvredirect/lib/clock"
)

const (
	textStoreError          = "❌ <b>Error:</b> The redirect store is unavailable. Please try again later."
	textInvalidCode         = "❌ <b>Invalid Code.</b> Please try again or /cancel."
	textNoChannel           = "❌ <b>Error:</b> No channel ID found for this link."
	textUpdateFailed        = "❌ <b>Error:</b> The new invite link could not be saved."
	textRegenerateCancelled = "❌ Regeneration cancelled."
	textRegeneratePrompt    = "♻️ <b>Regenerate Invite Link</b>\n\n" +
		"Please send me the <b>Redirect Code</b> of the link you want to regenerate."
)

func dashboardText(s *entity.Stats) string {
	return fmt.Sprintf("<b>🤖 XTV Redirect Bot - Admin Dashboard</b>\n\n"+
		"🔗 <b>Total Redirect Links:</b> %d\n"+
		"📊 <b>Total Redirects Served:</b> %d\n\n"+
		"Select an action:", s.TotalLinks, s.TotalServed)
}

func dashboardKeyboard() chat.Keyboard {
	return chat.Keyboard{
		chat.Row(chat.Button{Text: "📜 List Latest Links", Data: CbList + "|0"}),
		chat.Row(chat.Button{Text: "🔄 Refresh Stats", Data: CbStats}),
		chat.Row(chat.Button{Text: "♻️ Regenerate Invite Link", Data: CbRegenerate}),
	}
}

func listText(records []*entity.RedirectRecord, page, pages int, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📜 Redirect Links</b> (page %d/%d)\n\n", page+1, pages)
	if len(records) == 0 {
		b.WriteString("No redirect links yet.")
		return b.String()
	}
	for _, r := range records {
		fmt.Fprintf(&b, "• <b>%s</b>\n   <code>%s</code> (Uses: %d, last: %s)\n\n",
			html.EscapeString(r.SeriesName), r.Code, r.UsedCount, clock.Ago(r.LastUsedAt, now))
	}
	return strings.TrimRight(b.String(), "\n")
}

func listKeyboard(page, pages int) chat.Keyboard {
	var nav []chat.Button
	if page > 0 {
		nav = append(nav, chat.Button{Text: "⬅️ Prev", Data: fmt.Sprintf("%s|%d", CbList, page-1)})
	}
	if page+1 < pages {
		nav = append(nav, chat.Button{Text: "Next ➡️", Data: fmt.Sprintf("%s|%d", CbList, page+1)})
	}
	kb := chat.Keyboard{}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	return append(kb, backKeyboard()...)
}

func backKeyboard() chat.Keyboard {
	return chat.Keyboard{chat.Row(chat.Button{Text: "🔙 Back to Dashboard", Data: CbStats})}
}

func cancelKeyboard() chat.Keyboard {
	return chat.Keyboard{chat.Row(chat.Button{Text: "❌ Cancel", Data: CbCancelRegenerate})}
}

func mintFailedText(err error) string {
	return "❌ <b>Error:</b> Could not create invite link.\n" + html.EscapeString(err.Error())
}

func regeneratedText(series, link, code string) string {
	return fmt.Sprintf("✅ <b>Invite Link Regenerated!</b>\n\n"+
		"📺 <b>Series:</b> %s\n"+
		"🔗 <b>New Invite Link:</b> %s\n\n"+
		"The redirect link (<code>%s</code>) will now point to this new invite link.",
		html.EscapeString(series), link, code)
}
