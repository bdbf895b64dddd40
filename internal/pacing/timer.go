// Package pacing provides the reading timers.
package pacing

import "fmt"

// Mode selects how the block timer counts.
type Mode string

const (
	// ModeTraining counts elapsed seconds up from zero.
	ModeTraining Mode = "training"
	// ModeCountdown counts down from an initial duration into overtime.
	ModeCountdown Mode = "timer"
)

// DefaultCountdown is the initial countdown duration in seconds.
const DefaultCountdown = 60

const warningThreshold = 10

// ParseMode maps a persisted or configured name to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case string(ModeTraining):
		return ModeTraining, true
	case string(ModeCountdown), "countdown":
		return ModeCountdown, true
	default:
		return "", false
	}
}

// Timer is the block timer. It advances only through Tick.
type Timer struct {
	mode    Mode
	initial int
	value   int
	running bool
	started bool
}

// NewTimer returns a stopped timer at the mode's start value.
func NewTimer(mode Mode, initial int) *Timer {
	if initial <= 0 {
		initial = DefaultCountdown
	}
	t := &Timer{mode: mode, initial: initial}
	t.Reset()
	return t
}

// Mode returns the active mode.
func (t *Timer) Mode() Mode { return t.mode }

// Value returns the current value in seconds. Countdown values go negative in overtime.
func (t *Timer) Value() int { return t.value }

// Elapsed returns the seconds ticked since the last reset, in either mode.
func (t *Timer) Elapsed() int {
	if t.mode == ModeCountdown {
		return t.initial - t.value
	}
	return t.value
}

// Initial returns the countdown start value.
func (t *Timer) Initial() int { return t.initial }

// Running reports whether ticks are applied.
func (t *Timer) Running() bool { return t.running }

// Started reports whether the timer ran since the last reset.
func (t *Timer) Started() bool { return t.started }

// Start resumes ticking.
func (t *Timer) Start() {
	t.running = true
	t.started = true
}

// Pause stops ticking and keeps the value.
func (t *Timer) Pause() {
	t.running = false
}

// Toggle switches between running and paused.
func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Reset stops the timer and returns it to the mode's start value.
func (t *Timer) Reset() {
	t.running = false
	t.started = false
	if t.mode == ModeCountdown {
		t.value = t.initial
		return
	}
	t.value = 0
}

// SetMode switches the counting mode and resets.
func (t *Timer) SetMode(mode Mode) {
	t.mode = mode
	t.Reset()
}

// SetInitialDuration changes the countdown start value and resets.
// It has no effect in training mode.
func (t *Timer) SetInitialDuration(seconds int) {
	if t.mode != ModeCountdown || seconds <= 0 {
		return
	}
	t.initial = seconds
	t.Reset()
}

// Tick applies one second when running.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	if t.mode == ModeCountdown {
		t.value--
		return
	}
	t.value++
}

// IsWarning reports the last seconds before a countdown expires.
func (t *Timer) IsWarning() bool {
	return t.mode == ModeCountdown && t.value > 0 && t.value <= warningThreshold
}

// IsExpired reports a countdown at or below zero.
func (t *Timer) IsExpired() bool {
	return t.mode == ModeCountdown && t.value <= 0
}

// Format renders seconds as MM:SS, with a leading minus for overtime.
func Format(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/60, seconds%60)
}
