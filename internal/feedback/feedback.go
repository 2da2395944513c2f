// Package feedback implements the transient "copied" state shown after a
// successful clipboard write, and the cancellable timer that reverts it.
package feedback

import (
	"sync"
	"time"
)

// DefaultWindow is how long a confirmation stays visible before reverting.
const DefaultWindow = 2000 * time.Millisecond

// Phase is the visible state of a copy control.
type Phase int

const (
	Idle Phase = iota
	Copied
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Copied:
		return "copied"
	default:
		return "unknown"
	}
}

// Timer is a pending deferred task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d elapses.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the wall clock via time.AfterFunc.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Window holds the phase of one control and at most one pending reset.
// The zero value is not usable; create with New.
type Window struct {
	mu        sync.Mutex
	phase     Phase
	timer     Timer
	gen       uint64 // bumped on every arm and on Close; stale fires compare against it
	seq       uint64 // bumped on every phase transition
	closed    bool
	duration  time.Duration
	scheduler Scheduler
	onChange  func(Phase)

	notifyMu sync.Mutex
	notified uint64 // seq of the last delivered transition
}

// Option configures a Window.
type Option func(*Window)

// WithDuration overrides DefaultWindow. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(w *Window) {
		if d > 0 {
			w.duration = d
		}
	}
}

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(w *Window) {
		if s != nil {
			w.scheduler = s
		}
	}
}

// WithOnChange registers a callback invoked after every phase transition.
// It is called without the state lock held and must not call back into the
// Window. A transition superseded before its callback runs is not delivered.
func WithOnChange(fn func(Phase)) Option {
	return func(w *Window) {
		w.onChange = fn
	}
}

// New creates an idle Window.
func New(opts ...Option) *Window {
	w := &Window{
		phase:     Idle,
		duration:  DefaultWindow,
		scheduler: RealScheduler{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Phase returns the current phase.
func (w *Window) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Duration returns the configured feedback window.
func (w *Window) Duration() time.Duration {
	return w.duration
}

// Confirm moves the window to Copied and (re)arms the reset timer.
// A pending reset is stopped and superseded, never stacked.
// Returns false if the window was closed.
func (w *Window) Confirm() bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	changed := w.phase != Copied
	w.phase = Copied
	if changed {
		w.seq++
	}
	seq := w.seq
	w.timer = w.scheduler.AfterFunc(w.duration, func() { w.expire(gen) })
	w.mu.Unlock()

	if changed {
		w.notify(seq, Copied)
	}
	return true
}

// expire reverts to Idle unless the timer that fired was superseded.
func (w *Window) expire(gen uint64) {
	w.mu.Lock()
	if w.closed || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.phase = Idle
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	w.notify(seq, Idle)
}

// Pending reports whether a reset timer is armed.
func (w *Window) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

// Close cancels any pending reset. Later timer fires are no-ops.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// notify delivers transition seq unless a later one was delivered first.
func (w *Window) notify(seq uint64, p Phase) {
	if w.onChange == nil {
		return
	}
	w.notifyMu.Lock()
	defer w.notifyMu.Unlock()
	if seq <= w.notified {
		return
	}
	w.notified = seq
	w.onChange(p)
}
