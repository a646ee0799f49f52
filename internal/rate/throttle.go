package rate

import (
	"sync"
	"time"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

// Throttler runs fn at most once per cooldown window and silently drops the
// calls in between.
type Throttler[A any] struct {
	fn    func(A) error
	limit time.Duration
	opts  options

	mu          sync.Mutex
	suppressing bool
	timer       clock.Timer
	gen         uint64
}

// NewThrottler wraps fn so that it runs on the first call and then not again
// until limit has elapsed.
func NewThrottler[A any](fn func(A) error, limit time.Duration, opts ...Option) *Throttler[A] {
	if limit < 0 {
		limit = 0
	}
	return &Throttler[A]{
		fn:    fn,
		limit: limit,
		opts:  newOptions(opts),
	}
}

// Throttle is the zero-argument form of NewThrottler.
func Throttle(fn func(), limit time.Duration, opts ...Option) func() {
	t := NewThrottler(func(struct{}) error {
		fn()
		return nil
	}, limit, opts...)
	return func() { _ = t.Call(struct{}{}) }
}

// Call runs fn with args unless a cooldown is in progress, in which case the
// call is dropped and Call returns nil. The cooldown starts before fn runs,
// so an error or panic from fn does not reopen the gate early.
func (t *Throttler[A]) Call(args A) error {
	t.mu.Lock()
	if t.suppressing {
		t.mu.Unlock()
		return nil
	}
	t.suppressing = true
	t.gen++
	gen := t.gen
	t.timer = t.opts.clock.AfterFunc(t.limit, func() { t.reset(gen) })
	t.mu.Unlock()

	return t.fn(args)
}

// Cancel ends the current cooldown so the next call runs immediately.
// Safe to call repeatedly.
func (t *Throttler[A]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.suppressing = false
}

// Suppressing reports whether calls are currently being dropped.
func (t *Throttler[A]) Suppressing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.suppressing
}

func (t *Throttler[A]) reset(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		return
	}
	t.suppressing = false
	t.timer = nil
}
