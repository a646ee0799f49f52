package notify

import (
	"strconv"
	"sync"
	"time"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

// Option configures a Queue.
type Option func(*Queue)

// WithClock sets the clock used to schedule removal.
func WithClock(c clock.Clock) Option {
	return func(q *Queue) {
		q.clock = c
	}
}

// WithDefaultDuration sets the duration used when Enqueue is given zero.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultDuration = d
		}
	}
}

type entry struct {
	notification Notification
	timer        clock.Timer
}

// Queue holds the currently visible notifications and removes each one when
// its duration elapses. It is safe for concurrent use.
type Queue struct {
	clock           clock.Clock
	defaultDuration time.Duration

	mu     sync.Mutex
	seq    uint64
	active []*entry
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:           clock.Real(),
		defaultDuration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue implements Sink.
func (q *Queue) Enqueue(message string, level Level, d time.Duration) {
	q.Push(message, level, d)
}

// Push adds a notification and returns it. A non-positive d selects the
// queue's default duration; an empty level is Info.
func (q *Queue) Push(message string, level Level, d time.Duration) Notification {
	if d <= 0 {
		d = q.defaultDuration
	}
	if level == "" {
		level = Info
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	n := Notification{
		ID:        "n" + strconv.FormatUint(q.seq, 10),
		Message:   message,
		Level:     level,
		Duration:  d,
		CreatedAt: q.clock.Now(),
	}
	e := &entry{notification: n}
	q.active = append(q.active, e)
	e.timer = q.clock.AfterFunc(d, func() {
		q.remove(n.ID)
	})

	return n
}

// Dismiss removes a notification before its duration elapses. It reports
// whether the notification was still visible.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	e := q.take(id)
	q.mu.Unlock()

	if e == nil {
		return false
	}
	e.timer.Stop()
	return true
}

// Active returns the visible notifications, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Notification, len(q.active))
	for i, e := range q.active {
		out[i] = e.notification
	}
	return out
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active)
}

func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.take(id)
}

// take must be called with q.mu held.
func (q *Queue) take(id string) *entry {
	for i, e := range q.active {
		if e.notification.ID == id {
			q.active = append(q.active[:i], q.active[i+1:]...)
			return e
		}
	}
	return nil
}
