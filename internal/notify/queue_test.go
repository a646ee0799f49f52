package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"info", Info},
		{"SUCCESS", Success},
		{"Warning", Warning},
		{"danger", Danger},
		{"", Info},
		{"error", Info},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestQueue_RemovesAfterDuration(t *testing.T) {
	c := clock.NewManual(epoch)
	q := NewQueue(WithClock(c))

	n := q.Push("Page load time is slow.", Warning, 2*time.Second)
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, epoch, n.CreatedAt)
	assert.Equal(t, 1, q.Len())

	c.Advance(time.Second)
	assert.Equal(t, 1, q.Len())

	c.Advance(time.Second)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DefaultDuration(t *testing.T) {
	c := clock.NewManual(epoch)
	q := NewQueue(WithClock(c))

	n := q.Push("hello", "", 0)
	assert.Equal(t, DefaultDuration, n.Duration)
	assert.Equal(t, Info, n.Level)

	c.Advance(DefaultDuration - time.Millisecond)
	assert.Equal(t, 1, q.Len())
	c.Advance(time.Millisecond)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_WithDefaultDuration(t *testing.T) {
	q := NewQueue(WithClock(clock.NewManual(epoch)), WithDefaultDuration(time.Second))
	assert.Equal(t, time.Second, q.Push("x", Info, -1).Duration)
}

func TestQueue_ActiveOrderAndIndependentExpiry(t *testing.T) {
	c := clock.NewManual(epoch)
	q := NewQueue(WithClock(c))

	q.Enqueue("first", Info, 3*time.Second)
	q.Enqueue("second", Danger, time.Second)
	q.Enqueue("third", Success, 2*time.Second)

	active := q.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "first", active[0].Message)
	assert.Equal(t, "third", active[2].Message)

	c.Advance(time.Second)
	active = q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, []string{"first", "third"}, []string{active[0].Message, active[1].Message})
}

func TestQueue_Dismiss(t *testing.T) {
	c := clock.NewManual(epoch)
	q := NewQueue(WithClock(c))

	n := q.Push("bye", Info, time.Minute)
	assert.True(t, q.Dismiss(n.ID))
	assert.False(t, q.Dismiss(n.ID))
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, c.Pending(), "removal timer is cancelled")
}

func TestFanout(t *testing.T) {
	c := clock.NewManual(epoch)
	a := NewQueue(WithClock(c))
	b := NewQueue(WithClock(c))

	var got []Level
	Fanout(a, nil, b, SinkFunc(func(_ string, l Level, _ time.Duration) {
		got = append(got, l)
	})).Enqueue("x", Danger, time.Second)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []Level{Danger}, got)

	Discard.Enqueue("dropped", Info, time.Second)
}
