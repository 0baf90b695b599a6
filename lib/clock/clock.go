package clock

import (
	"fmt"
	"time"
)

const layout = "2006-01-02T15:04:05Z"

func Now() string {
	return time.Now().UTC().Format(layout)
}

func Format(t time.Time) string {
	return t.UTC().Format(layout)
}

// Ago renders how long before now t happened, coarse enough for a chat listing.
// A nil t means the event never happened.
func Ago(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	d := now.Sub(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
