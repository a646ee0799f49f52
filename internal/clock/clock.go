// Package clock abstracts timer scheduling so timing-driven components can run
// against the wall clock in production and a manually advanced clock in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
//
// Stop cancels the callback. It returns true if the call stopped the timer and
// false if the timer had already fired or been stopped. Calling Stop more than
// once is always safe.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once, on its own goroutine, after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// Every calls f repeatedly with period d until the returned timer is
	// stopped. Calls never overlap. d must be positive.
	Every(d time.Duration, f func()) Timer
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Every(d time.Duration, f func()) Timer {
	t := &intervalTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

// intervalTimer drives a recurring callback from a time.Ticker.
type intervalTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *intervalTimer) run(f func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// A tick may already be queued when Stop is called from inside f.
			select {
			case <-t.done:
				return
			default:
			}
			f()
		}
	}
}

func (t *intervalTimer) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
