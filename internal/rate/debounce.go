package rate

import (
	"sync"
	"time"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

// Debouncer coalesces bursts of calls into a leading and a trailing
// invocation of fn.
//
// The limiter moves between three states:
//
//	idle     no window open; the next Call runs fn immediately and opens one
//	open     window armed, no further calls yet; expiry returns to idle
//	pending  calls arrived while open; each re-arms the window, and expiry
//	         runs fn with the last call's arguments, then returns to idle
type Debouncer[A any] struct {
	fn   func(A) error
	wait time.Duration
	opts options

	mu       sync.Mutex
	timer    clock.Timer
	gen      uint64
	trailing bool
	last     A
}

// NewDebouncer wraps fn so that bursts of calls closer together than wait
// run fn exactly twice: once for the first call and once, with the last
// call's arguments, after the burst has been quiet for wait.
func NewDebouncer[A any](fn func(A) error, wait time.Duration, opts ...Option) *Debouncer[A] {
	if wait < 0 {
		wait = 0
	}
	return &Debouncer[A]{
		fn:   fn,
		wait: wait,
		opts: newOptions(opts),
	}
}

// Debounce is the zero-argument form of NewDebouncer.
func Debounce(fn func(), wait time.Duration, opts ...Option) func() {
	d := NewDebouncer(func(struct{}) error {
		fn()
		return nil
	}, wait, opts...)
	return func() { _ = d.Call(struct{}{}) }
}

// Call records an invocation.
//
// On the leading edge fn runs synchronously and its error (or panic) reaches
// the caller. The window is armed before fn runs, so a failing fn leaves the
// limiter in the same state as a successful one. Calls that only re-arm the
// window return nil.
func (d *Debouncer[A]) Call(args A) error {
	d.mu.Lock()
	if d.timer == nil {
		d.arm()
		d.mu.Unlock()
		return d.fn(args)
	}

	d.timer.Stop()
	d.last = args
	d.trailing = true
	d.arm()
	d.mu.Unlock()
	return nil
}

// Cancel closes the window and drops any pending trailing call. It is safe to
// call at any time, including repeatedly.
func (d *Debouncer[A]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.clearTrailing()
}

// Pending reports whether a trailing call is scheduled.
func (d *Debouncer[A]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trailing
}

// Idle reports whether no window is open, meaning the next Call runs fn
// immediately.
func (d *Debouncer[A]) Idle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer == nil
}

// arm starts a fresh window. Caller holds mu.
func (d *Debouncer[A]) arm() {
	d.gen++
	gen := d.gen
	d.timer = d.opts.clock.AfterFunc(d.wait, func() { d.expire(gen) })
}

func (d *Debouncer[A]) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// Superseded by a re-arm or Cancel after this timer fired.
		d.mu.Unlock()
		return
	}
	d.timer = nil
	trailing, args := d.trailing, d.last
	d.clearTrailing()
	d.mu.Unlock()

	if trailing {
		invokeDetached(d.fn, args, d.opts.onError)
	}
}

// clearTrailing drops the saved arguments. Caller holds mu.
func (d *Debouncer[A]) clearTrailing() {
	var zero A
	d.trailing = false
	d.last = zero
}
