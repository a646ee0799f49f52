// Package notify delivers short-lived user notifications.
//
// A Sink accepts a message, an alert level and a display duration, and is
// responsible for removing the notification once the duration has elapsed.
package notify

import (
	"strings"
	"time"
)

// DefaultDuration is how long a notification stays visible when the caller
// does not say otherwise.
const DefaultDuration = 5 * time.Second

// Level is the alert style of a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Danger  Level = "danger"
)

// ParseLevel resolves s case-insensitively. Unknown or empty input is Info.
func ParseLevel(s string) Level {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Info, Success, Warning, Danger:
		return l
	default:
		return Info
	}
}

// Notification is one message shown to the user.
type Notification struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Level     Level         `json:"level"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
}

// DurationMillis returns the display duration in milliseconds.
func (n Notification) DurationMillis() int64 {
	return n.Duration.Milliseconds()
}

// Sink receives notifications.
type Sink interface {
	Enqueue(message string, level Level, d time.Duration)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string, level Level, d time.Duration)

// Enqueue calls f(message, level, d).
func (f SinkFunc) Enqueue(message string, level Level, d time.Duration) {
	f(message, level, d)
}

// Fanout returns a Sink that forwards every notification to each sink in
// order. Nil sinks are skipped.
func Fanout(sinks ...Sink) Sink {
	return SinkFunc(func(message string, level Level, d time.Duration) {
		for _, s := range sinks {
			if s != nil {
				s.Enqueue(message, level, d)
			}
		}
	})
}

// Discard is a Sink that drops every notification.
var Discard Sink = SinkFunc(func(string, Level, time.Duration) {})
