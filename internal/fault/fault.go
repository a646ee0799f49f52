// Package fault is the last line of defence for errors nobody handled.
//
// A Boundary logs every uncaught error, panic or failed background task and
// shows the user one danger notification per fault. It never terminates the
// process and never deduplicates: N faults produce N notifications.
package fault

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/notify"
)

// DefaultMessage is the notification shown for every fault.
const DefaultMessage = "An unexpected error occurred. Please refresh the page."

// PanicError wraps a recovered panic value.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Boundary) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMessage overrides DefaultMessage.
func WithMessage(msg string) Option {
	return func(b *Boundary) {
		if msg != "" {
			b.message = msg
		}
	}
}

// WithDuration sets how long each fault notification stays visible.
func WithDuration(d time.Duration) Option {
	return func(b *Boundary) {
		if d > 0 {
			b.duration = d
		}
	}
}

// Boundary reports unhandled faults. It is safe for concurrent use.
type Boundary struct {
	sink     notify.Sink
	logger   *zap.Logger
	message  string
	duration time.Duration

	faults atomic.Int64
	wg     sync.WaitGroup
}

// New creates a Boundary that notifies sink. A nil sink only logs.
func New(sink notify.Sink, opts ...Option) *Boundary {
	if sink == nil {
		sink = notify.Discard
	}
	b := &Boundary{
		sink:     sink,
		logger:   zap.NewNop(),
		message:  DefaultMessage,
		duration: notify.DefaultDuration,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Error reports an uncaught error.
func (b *Boundary) Error(err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	fields := []zap.Field{zap.Error(err)}
	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		fields = append(fields, zap.ByteString("stack", pe.Stack))
	}
	b.logger.Error("global error", fields...)

	b.report()
}

// Reject reports an asynchronous task that failed with nobody waiting for
// its result.
func (b *Boundary) Reject(reason interface{}) {
	b.logger.Error("unhandled promise rejection", zap.Any("reason", reason))
	b.report()
}

func (b *Boundary) report() {
	b.faults.Add(1)
	b.sink.Enqueue(b.message, notify.Danger, b.duration)
}

// Go runs fn on a new goroutine. A returned error is reported with Reject
// and a panic with Error.
func (b *Boundary) Go(fn func() error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.Recover()

		if err := fn(); err != nil {
			b.Reject(err)
		}
	}()
}

// Wait blocks until every goroutine started with Go has returned.
func (b *Boundary) Wait() {
	b.wg.Wait()
}

// Recover reports a panic in progress as an uncaught error and stops it.
// It must be called directly by defer:
//
//	defer b.Recover()
func (b *Boundary) Recover() {
	if r := recover(); r != nil {
		b.Error(&PanicError{Value: r, Stack: debug.Stack()})
	}
}

// Middleware recovers panics in next, answers 500 and reports the panic.
// http.ErrAbortHandler is re-raised so the server can abort the response.
func (b *Boundary) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			b.Error(&PanicError{Value: rec, Stack: debug.Stack()})
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// Faults returns the number of faults reported so far.
func (b *Boundary) Faults() int64 {
	return b.faults.Load()
}
