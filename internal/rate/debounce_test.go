package rate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder[A any] struct {
	calls []A
	err   error
}

func (r *recorder[A]) fn(args A) error {
	r.calls = append(r.calls, args)
	return r.err
}

func TestDebouncer_SingleCallRunsOnceImmediately(t *testing.T) {
	for _, wait := range []time.Duration{time.Millisecond, 50 * time.Millisecond, time.Second} {
		t.Run(wait.String(), func(t *testing.T) {
			c := clock.NewManual(epoch)
			rec := &recorder[int]{}
			d := NewDebouncer(rec.fn, wait, WithClock(c))

			require.NoError(t, d.Call(1))
			assert.Equal(t, []int{1}, rec.calls, "leading call must run synchronously")

			c.Advance(wait * 10)
			assert.Equal(t, []int{1}, rec.calls, "a lone call must not produce a trailing call")
			assert.True(t, d.Idle())
		})
	}
}

func TestDebouncer_BurstCollapsesToLeadingAndTrailing(t *testing.T) {
	tests := []struct {
		name  string
		calls int
	}{
		{"two calls", 2},
		{"ten calls", 10},
		{"hundred calls", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clock.NewManual(epoch)
			rec := &recorder[int]{}
			wait := 100 * time.Millisecond
			d := NewDebouncer(rec.fn, wait, WithClock(c))

			for i := 1; i <= tt.calls; i++ {
				require.NoError(t, d.Call(i))
				c.Advance(wait / 2)
			}
			assert.Equal(t, []int{1}, rec.calls, "only the leading call runs during the burst")
			assert.True(t, d.Pending())

			c.Advance(wait)
			assert.Equal(t, []int{1, tt.calls}, rec.calls, "trailing call gets the last arguments")
			assert.False(t, d.Pending())
			assert.True(t, d.Idle())
		})
	}
}

func TestDebouncer_TrailingWaitsForQuietWindow(t *testing.T) {
	c := clock.NewManual(epoch)
	rec := &recorder[string]{}
	d := NewDebouncer(rec.fn, 100*time.Millisecond, WithClock(c))

	_ = d.Call("a")
	c.Advance(90 * time.Millisecond)
	_ = d.Call("b")
	c.Advance(90 * time.Millisecond)
	assert.Equal(t, []string{"a"}, rec.calls, "window re-armed by the second call")

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, rec.calls)
}

func TestDebouncer_NewBurstAfterIdleLeadsAgain(t *testing.T) {
	c := clock.NewManual(epoch)
	rec := &recorder[int]{}
	d := NewDebouncer(rec.fn, 10*time.Millisecond, WithClock(c))

	_ = d.Call(1)
	_ = d.Call(2)
	c.Advance(10 * time.Millisecond)
	_ = d.Call(3)

	assert.Equal(t, []int{1, 2, 3}, rec.calls)
}

func TestDebouncer_LeadingErrorPropagatesAndStateStays(t *testing.T) {
	c := clock.NewManual(epoch)
	boom := errors.New("boom")
	rec := &recorder[int]{err: boom}
	d := NewDebouncer(rec.fn, 10*time.Millisecond, WithClock(c))

	err := d.Call(1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, d.Idle(), "window is armed even though fn failed")

	assert.NoError(t, d.Call(2))
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, rec.calls)
	assert.True(t, d.Idle())
}

func TestDebouncer_LeadingPanicLeavesStateConsistent(t *testing.T) {
	c := clock.NewManual(epoch)
	calls := 0
	d := NewDebouncer(func(int) error {
		calls++
		if calls == 1 {
			panic("leading failure")
		}
		return nil
	}, 10*time.Millisecond, WithClock(c))

	assert.Panics(t, func() { _ = d.Call(1) })
	assert.False(t, d.Idle())

	_ = d.Call(2)
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, calls)
	assert.True(t, d.Idle())
}

func TestDebouncer_TrailingFailureGoesToHandler(t *testing.T) {
	c := clock.NewManual(epoch)
	var reported []error
	boom := errors.New("trailing failed")

	d := NewDebouncer(func(n int) error {
		if n == 2 {
			return boom
		}
		if n == 3 {
			panic("trailing panic")
		}
		return nil
	}, 10*time.Millisecond, WithClock(c), WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))

	_ = d.Call(1)
	_ = d.Call(2)
	c.Advance(10 * time.Millisecond)

	_ = d.Call(1)
	_ = d.Call(3)
	c.Advance(10 * time.Millisecond)

	require.Len(t, reported, 2)
	assert.ErrorIs(t, reported[0], boom)
	assert.Contains(t, reported[1].Error(), "trailing panic")
	assert.True(t, d.Idle())
}

func TestDebouncer_CancelDropsTrailing(t *testing.T) {
	c := clock.NewManual(epoch)
	rec := &recorder[int]{}
	d := NewDebouncer(rec.fn, 10*time.Millisecond, WithClock(c))

	_ = d.Call(1)
	_ = d.Call(2)
	d.Cancel()
	d.Cancel()
	c.Advance(time.Second)

	assert.Equal(t, []int{1}, rec.calls)
	assert.True(t, d.Idle())
	assert.Equal(t, 0, c.Pending())
}

func TestDebouncer_ReentrantCallFromFn(t *testing.T) {
	c := clock.NewManual(epoch)
	var d *Debouncer[int]
	var calls []int
	d = NewDebouncer(func(n int) error {
		calls = append(calls, n)
		if n == 1 {
			return d.Call(2)
		}
		return nil
	}, 10*time.Millisecond, WithClock(c))

	require.NoError(t, d.Call(1))
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, calls)
}

func TestDebounce_ZeroArity(t *testing.T) {
	c := clock.NewManual(epoch)
	count := 0
	g := Debounce(func() { count++ }, 20*time.Millisecond, WithClock(c))

	for i := 0; i < 5; i++ {
		g()
	}
	c.Advance(20 * time.Millisecond)
	assert.Equal(t, 2, count)
}

func TestDebouncer_RealClock(t *testing.T) {
	done := make(chan int, 2)
	d := NewDebouncer(func(n int) error {
		done <- n
		return nil
	}, 20*time.Millisecond)

	_ = d.Call(1)
	_ = d.Call(2)
	_ = d.Call(3)

	assert.Equal(t, 1, <-done)
	select {
	case n := <-done:
		assert.Equal(t, 3, n)
	case <-time.After(2 * time.Second):
		t.Fatal("trailing call never ran")
	}
}
