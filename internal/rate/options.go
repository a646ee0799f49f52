package rate

import (
	"fmt"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

// Option configures a Debouncer or Throttler.
type Option func(*options)

type options struct {
	clock   clock.Clock
	onError func(error)
}

func newOptions(opts []Option) options {
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock sets the clock used to schedule windows. Defaults to the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithErrorHandler sets the handler for failures of calls that have no
// caller to return to, namely the trailing call of a Debouncer. A panic in
// such a call is recovered and passed to the handler as an error.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// invokeDetached runs fn outside of any caller and routes failures to the
// error handler.
func invokeDetached[A any](fn func(A) error, args A, onError func(error)) {
	defer func() {
		if r := recover(); r != nil {
			if onError != nil {
				onError(fmt.Errorf("rate: trailing call panicked: %v", r))
			}
		}
	}()

	if err := fn(args); err != nil && onError != nil {
		onError(err)
	}
}
