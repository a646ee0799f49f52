// Package animate counts a displayed number up to a target over a fixed
// duration, one frame at a time.
package animate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
	"github.com/Aaditya-jx/loadbalancing/internal/format"
	"github.com/Aaditya-jx/loadbalancing/internal/render"
)

// DefaultFrameInterval is the time between two frames.
const DefaultFrameInterval = 16 * time.Millisecond

var (
	// ErrDescendingRange is returned when the end value is below the start
	// value. Counting only moves upward.
	ErrDescendingRange = errors.New("animate: end is less than start")

	// ErrInvalidRange is returned when start or end is NaN or infinite.
	ErrInvalidRange = errors.New("animate: start and end must be finite")
)

// Option configures an Animator.
type Option func(*Animator)

// WithClock sets the clock driving the frames.
func WithClock(c clock.Clock) Option {
	return func(a *Animator) {
		a.clock = c
	}
}

// WithFrameInterval overrides DefaultFrameInterval. Non-positive values are
// ignored.
func WithFrameInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.frameInterval = d
		}
	}
}

// WithOvershoot displays the final accumulated value as is instead of
// snapping the last frame to the end value.
func WithOvershoot() Option {
	return func(a *Animator) {
		a.overshoot = true
	}
}

// WithFormat sets how a frame value is turned into text. The default
// floors the value and groups its digits.
func WithFormat(fn func(float64) string) Option {
	return func(a *Animator) {
		a.format = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Animator starts animations that write to a Renderer.
type Animator struct {
	renderer      render.Renderer
	clock         clock.Clock
	frameInterval time.Duration
	overshoot     bool
	format        func(float64) string
	logger        *zap.Logger
}

// New creates an Animator writing frames to r.
func New(r render.Renderer, opts ...Option) *Animator {
	a := &Animator{
		renderer:      r,
		clock:         clock.Real(),
		frameInterval: DefaultFrameInterval,
		format:        defaultFormat,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Floored values outside the int64 range are grouped as decimals.
func defaultFormat(v float64) string {
	f := math.Floor(v)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return format.Decimal(f)
	}
	return format.Number(int64(f))
}

// Animate counts surfaceID from start to end over duration.
//
// The value advances by (end-start)/(duration/frameInterval) every frame and
// the animation stops on the first frame whose value reaches end, or after
// ceil(duration/frameInterval) frames. A duration shorter than one frame
// produces a single frame. Nothing is scheduled when
// an error is returned.
func (a *Animator) Animate(surfaceID string, start, end float64, duration time.Duration) (*Animation, error) {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("%w: start=%v end=%v", ErrInvalidRange, start, end)
	}
	if end < start {
		return nil, fmt.Errorf("%w: start=%v end=%v", ErrDescendingRange, start, end)
	}

	steps := float64(duration) / float64(a.frameInterval)
	if steps < 1 {
		steps = 1
	}

	anim := &Animation{
		animator:  a,
		surfaceID: surfaceID,
		current:   start,
		shown:     start,
		end:       end,
		increment: (end - start) / steps,
		maxFrames: int(math.Ceil(steps)),
		done:      make(chan struct{}),
	}

	anim.mu.Lock()
	anim.timer = a.clock.Every(a.frameInterval, anim.tick)
	anim.mu.Unlock()

	a.logger.Debug("animation started",
		zap.String("surface", surfaceID),
		zap.Float64("start", start),
		zap.Float64("end", end),
		zap.Duration("duration", duration),
	)

	return anim, nil
}

// Animation is one running count-up. Its methods are safe for concurrent use.
type Animation struct {
	animator  *Animator
	surfaceID string
	end       float64
	increment float64
	maxFrames int

	mu       sync.Mutex
	current  float64
	shown    float64
	frames   int
	finished bool
	timer    clock.Timer

	done     chan struct{}
	doneOnce sync.Once
}

func (an *Animation) tick() {
	an.mu.Lock()
	if an.finished {
		an.mu.Unlock()
		return
	}

	an.current += an.increment
	an.frames++
	value := an.current
	// The frame budget also ends animations whose increment is lost to
	// float rounding at the current magnitude.
	terminal := an.current >= an.end || an.frames >= an.maxFrames
	if terminal {
		an.finished = true
		if !an.animator.overshoot || value < an.end {
			value = an.end
		}
		an.timer.Stop()
	}
	an.shown = value
	frames := an.frames
	an.mu.Unlock()

	an.animator.renderer.Write(an.surfaceID, an.animator.format(value))

	if terminal {
		an.animator.logger.Debug("animation finished",
			zap.String("surface", an.surfaceID),
			zap.Int("frames", frames),
		)
		an.finish()
	}
}

func (an *Animation) finish() {
	an.doneOnce.Do(func() {
		close(an.done)
	})
}

// Stop cancels the remaining frames. A frame already being written may still
// complete. Stop is idempotent.
func (an *Animation) Stop() {
	an.mu.Lock()
	if an.finished {
		an.mu.Unlock()
		return
	}
	an.finished = true
	an.timer.Stop()
	an.mu.Unlock()

	an.finish()
}

// Done is closed when the animation reaches its end or is stopped.
func (an *Animation) Done() <-chan struct{} {
	return an.done
}

// Wait blocks until the animation is done or ctx is cancelled.
func (an *Animation) Wait(ctx context.Context) error {
	select {
	case <-an.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frames returns the number of frames written so far.
func (an *Animation) Frames() int {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.frames
}

// Current returns the value of the most recent frame.
func (an *Animation) Current() float64 {
	an.mu.Lock()
	defer an.mu.Unlock()
	return an.shown
}
