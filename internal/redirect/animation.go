package redirect

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Frame is one step of the waiting animation: Status (when non-empty) is
// appended to the caption, then the flow waits Hold before the next frame.
type Frame struct {
	Status string
	Hold   time.Duration
}

// AnimationPolicy decides how long and how visibly the user waits before the join button appears.
type AnimationPolicy interface {
	Name() string
	Frames() []Frame
}

var statusLines = []string{
	"Creating Individual Invite Link... ⚙️",
	"Verifying User Access... 🔐",
	"Preparing Secure Channel... 📡",
}

// Rotating shows the three status lines in random order, Step apart.
type Rotating struct {
	Step time.Duration
}

func (Rotating) Name() string { return "rotating" }

func (r Rotating) Frames() []Frame {
	step := r.Step
	if step <= 0 {
		step = 1500 * time.Millisecond
	}
	lines := append([]string(nil), statusLines...)
	rand.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })
	frames := make([]Frame, len(lines))
	for i, line := range lines {
		frames[i] = Frame{Status: line, Hold: step}
	}
	return frames
}

// RandomPause keeps the caption as is and waits a random duration in [Min, Max].
type RandomPause struct {
	Min, Max time.Duration
}

func (RandomPause) Name() string { return "pause" }

func (p RandomPause) Frames() []Frame {
	lo, hi := p.Min, p.Max
	if lo <= 0 && hi <= 0 {
		lo, hi = 3*time.Second, 8*time.Second
	}
	if hi < lo {
		hi = lo
	}
	hold := lo
	if span := hi - lo; span > 0 {
		hold += time.Duration(rand.Int64N(int64(span) + 1))
	}
	return []Frame{{Hold: hold}}
}

// ParseAnimation maps the configuration value to an AnimationPolicy.
func ParseAnimation(name string) (AnimationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rotating":
		return Rotating{}, nil
	case "pause", "random-pause":
		return RandomPause{}, nil
	}
	return nil, fmt.Errorf("unknown redirect animation %q", name)
}
