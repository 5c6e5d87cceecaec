package search

import (
	"sync"
	"time"
)

// Timer is the cancellable handle armed by the Debouncer. *time.Timer
// satisfies it; tests substitute a manual implementation.
type Timer interface {
	Stop() bool
}

// TimerFactory creates a single-shot timer that invokes fn after d.
type TimerFactory func(d time.Duration, fn func()) Timer

// Debouncer owns one cancellable deferred callback. Every Trigger cancels
// the outstanding timer and arms a fresh one, so a burst of calls coalesces
// into a single firing after the delay. There is no leading-edge firing.
type Debouncer struct {
	delay    time.Duration
	newTimer TimerFactory

	mu     sync.Mutex
	active Timer
}

// NewDebouncer creates a debouncer with the given delay, backed by
// time.AfterFunc.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		newTimer: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
	}
}

// Trigger re-arms the debouncer: any pending callback is cancelled and fn is
// scheduled to run after the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		d.active.Stop()
	}
	d.active = d.newTimer(d.delay, fn)
}

// Cancel stops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		d.active.Stop()
		d.active = nil
	}
}
