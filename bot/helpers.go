package bot

import (
	"log/slog"
	"strings"
	"unicode/utf8"
	"xtvredirect/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const maxTelegramMessageLen = 4096

// plainResponse sends HTML text, retrying without formatting when Telegram rejects the markup.
// Failures are logged below ERROR so they are never mirrored back to the operator.
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: parseMode,
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Warn("sending safe message", sl.Err(err))
		}
	}
}

// splitMessage cuts HTML text into parts of at most maxLen bytes. Cuts fall on
// rune boundaries and never inside a tag, an entity or an open element, at the
// last newline when there is one.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > maxLen {
		cutAt := safeCut(text, maxLen)
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

// safeCut returns a cut position in (0, maxLen]. When no position outside
// markup exists, it falls back to the last rune boundary.
func safeCut(text string, maxLen int) int {
	var (
		inTag, inEntity bool
		tagStart, depth int
		lastRune        int
		lastSafe        int
		lastNewline     int
	)
	for i, r := range text {
		if i > maxLen {
			break
		}
		if i > 0 {
			lastRune = i
			if !inTag && !inEntity && depth == 0 {
				lastSafe = i
			}
		}
		switch {
		case r == '<' && !inTag:
			inTag, inEntity, tagStart = true, false, i
		case r == '>' && inTag:
			inTag = false
			if strings.HasPrefix(text[tagStart:i], "</") {
				if depth > 0 {
					depth--
				}
			} else if !strings.HasSuffix(text[tagStart:i], "/") {
				depth++
			}
		case r == '&' && !inTag:
			inEntity = true
		case inEntity && (r == ';' || r == ' ' || r == '\n'):
			inEntity = false
		}
		if r == '\n' && !inTag && !inEntity && depth == 0 && i+1 <= maxLen {
			lastNewline = i + 1
		}
	}
	switch {
	case lastNewline > 0:
		return lastNewline
	case lastSafe > 0:
		return lastSafe
	case lastRune > 0:
		return lastRune
	}
	// a single rune wider than maxLen
	_, size := utf8.DecodeRuneInString(text)
	return size
}
