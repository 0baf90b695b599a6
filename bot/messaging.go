package bot

import (
	"xtvredirect/lib/logger"
)

var _ logger.Notifier = (*TgBot)(nil)

// NotifyOperator delivers a log-derived HTML message to the operator,
// through the digest when batching is enabled.
func (t *TgBot) NotifyOperator(text string) {
	if t.config.OperatorId == 0 || text == "" {
		return
	}
	if t.digest != nil {
		t.digest.Add(text)
		return
	}
	t.plainResponse(t.config.OperatorId, text)
}
