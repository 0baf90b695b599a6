package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type DigestEntry struct {
	Message   string
	Timestamp time.Time
}

// sender is the part of TgBot the digest needs.
type sender interface {
	operatorId() int64
	plainResponse(chatId int64, text string)
}

func (t *TgBot) operatorId() int64 {
	return t.config.OperatorId
}

// DigestBuffer collects operator notifications and sends them as one message per interval.
type DigestBuffer struct {
	mu       sync.Mutex
	entries  []DigestEntry
	interval time.Duration
	out      sender
	now      func() time.Time
	stopCh   chan struct{}
	done     chan struct{}
}

func NewDigestBuffer(out sender, interval time.Duration) *DigestBuffer {
	return &DigestBuffer{
		interval: interval,
		out:      out,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (d *DigestBuffer) Add(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, DigestEntry{
		Message:   msg,
		Timestamp: d.now(),
	})
}

func (d *DigestBuffer) StartTicker() {
	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.Flush()
			case <-d.stopCh:
				d.Flush() // final flush
				return
			}
		}
	}()
}

func (d *DigestBuffer) Flush() {
	d.mu.Lock()
	snapshot := d.entries
	d.entries = nil
	d.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}
	for _, part := range splitMessage(formatDigest(snapshot), maxTelegramMessageLen) {
		d.out.plainResponse(d.out.operatorId(), part)
	}
}

func (d *DigestBuffer) Stop() {
	close(d.stopCh)
	<-d.done
}

func formatDigest(entries []DigestEntry) string {
	if len(entries) == 1 {
		return entries[0].Message
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Digest</b> (%d messages)\n\n", len(entries)))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("<code>%s</code> %s\n\n", e.Timestamp.Format("15:04:05"), e.Message))
	}
	return strings.TrimRight(sb.String(), "\n")
}
