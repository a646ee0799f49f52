package monitor

import (
	"runtime"
)

// NavigationTiming holds the navigation milestones of one page load, in
// milliseconds relative to the start of the navigation.
type NavigationTiming struct {
	RequestStart   float64 `json:"requestStart"`
	ResponseStart  float64 `json:"responseStart"`
	LoadEventStart float64 `json:"loadEventStart"`
	LoadEventEnd   float64 `json:"loadEventEnd"`
}

// NetworkLatency is the time between sending the request and receiving the
// first response byte.
func (t NavigationTiming) NetworkLatency() float64 {
	return t.ResponseStart - t.RequestStart
}

// RenderTime is the duration of the load event.
func (t NavigationTiming) RenderTime() float64 {
	return t.LoadEventEnd - t.LoadEventStart
}

// TimingSource exposes optional host measurements. Each method reports false
// when the host cannot provide the value.
type TimingSource interface {
	NavigationTiming() (NavigationTiming, bool)
	MemoryUsage() (uint64, bool)
}

// NoCapabilities is a TimingSource that provides nothing.
type NoCapabilities struct{}

func (NoCapabilities) NavigationTiming() (NavigationTiming, bool) { return NavigationTiming{}, false }
func (NoCapabilities) MemoryUsage() (uint64, bool) { return 0, false }

// RuntimeSource reports the heap usage of the current process.
type RuntimeSource struct{}

func (RuntimeSource) NavigationTiming() (NavigationTiming, bool) { return NavigationTiming{}, false }

func (RuntimeSource) MemoryUsage() (uint64, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, true
}

// Combine returns a source that asks primary first and falls back to
// fallback for every capability primary lacks. Nil sources are skipped.
func Combine(primary, fallback TimingSource) TimingSource {
	switch {
	case primary == nil && fallback == nil:
		return NoCapabilities{}
	case primary == nil:
		return fallback
	case fallback == nil:
		return primary
	}
	return combined{primary: primary, fallback: fallback}
}

type combined struct {
	primary, fallback TimingSource
}

func (c combined) NavigationTiming() (NavigationTiming, bool) {
	if t, ok := c.primary.NavigationTiming(); ok {
		return t, true
	}
	return c.fallback.NavigationTiming()
}

func (c combined) MemoryUsage() (uint64, bool) {
	if m, ok := c.primary.MemoryUsage(); ok {
		return m, true
	}
	return c.fallback.MemoryUsage()
}
