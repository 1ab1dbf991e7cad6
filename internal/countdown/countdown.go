// Package countdown provides cancellable per-question countdowns.
package countdown

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is delivered once per interval to the task that scheduled it.
type TickMsg struct {
	Gen int
	At  time.Time
}

// Kind classifies the result of a tick.
type Kind int

// Tick outcomes.
const (
	Ignored Kind = iota
	Ticked
	Expired
)

// Event reports the state of a task after a tick.
type Event struct {
	Kind      Kind
	Remaining int
	Changed   bool
}

// Task counts down to an absolute deadline. Remaining time is derived from
// the deadline on every tick, so missed or delayed ticks do not cause drift.
type Task struct {
	gen       int
	deadline  time.Time
	remaining int
	stopped   bool
}

// Start creates a running task that expires seconds after now.
func Start(gen int, now time.Time, seconds int) *Task {
	if seconds < 0 {
		seconds = 0
	}
	return &Task{
		gen:       gen,
		deadline:  now.Add(time.Duration(seconds) * time.Second),
		remaining: seconds,
	}
}

// Gen returns the generation used to tag this task's ticks.
func (t *Task) Gen() int {
	return t.gen
}

// Remaining returns the last computed countdown value in seconds.
func (t *Task) Remaining() int {
	return t.remaining
}

// Stop cancels the task. Ticks delivered afterwards are ignored.
func (t *Task) Stop() {
	t.stopped = true
}

// Stopped reports whether Stop has been called.
func (t *Task) Stopped() bool {
	return t.stopped
}

// Tick recomputes the remaining seconds at msg.At. Ticks for another
// generation or for a stopped task are ignored.
func (t *Task) Tick(msg TickMsg) Event {
	if t.stopped || msg.Gen != t.gen {
		return Event{Kind: Ignored, Remaining: t.remaining}
	}
	left := secondsUntil(t.deadline, msg.At)
	changed := false
	if left < t.remaining {
		t.remaining = left
		changed = true
	}
	if t.remaining <= 0 {
		return Event{Kind: Expired, Remaining: 0, Changed: changed}
	}
	return Event{Kind: Ticked, Remaining: t.remaining, Changed: changed}
}

// Schedule returns a command delivering the next tick after interval.
func (t *Task) Schedule(interval time.Duration) tea.Cmd {
	if t.stopped {
		return nil
	}
	gen := t.gen
	return tea.Tick(interval, func(at time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: at}
	})
}

func secondsUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
