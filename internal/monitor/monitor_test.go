package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
	"github.com/Aaditya-jx/loadbalancing/internal/notify"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// slowHost is a host without capabilities that takes a while to answer.
type slowHost struct {
	clock *clock.Manual
	delay time.Duration
}

func (h slowHost) NavigationTiming() (NavigationTiming, bool) {
	h.clock.Advance(h.delay)
	return NavigationTiming{}, false
}

func (h slowHost) MemoryUsage() (uint64, bool) { return 0, false }

type staticSource struct {
	nav    *NavigationTiming
	memory *uint64
}

func (s staticSource) NavigationTiming() (NavigationTiming, bool) {
	if s.nav == nil {
		return NavigationTiming{}, false
	}
	return *s.nav, true
}

func (s staticSource) MemoryUsage() (uint64, bool) {
	if s.memory == nil {
		return 0, false
	}
	return *s.memory, true
}

func newQueue(c clock.Clock) *notify.Queue {
	return notify.NewQueue(notify.WithClock(c))
}

func TestMonitor_NoCapabilities(t *testing.T) {
	c := clock.NewManual(epoch)
	c.Advance(250 * time.Millisecond)
	q := newQueue(c)

	m := New(DefaultConfig(), WithClock(c), WithOrigin(epoch), WithSink(q))
	assert.Equal(t, Initializing, m.State())

	r := m.Start()

	assert.Equal(t, SamplingComplete, m.State())
	assert.Equal(t, 250.0, r.PageLoadTime)
	assert.False(t, r.DOMReady)
	assert.Equal(t, 0.0, r.NetworkLatency)
	assert.Equal(t, 0.0, r.RenderTime, "wall-clock fallback with no elapsed time")
	assert.Equal(t, uint64(0), r.MemoryUsedBytes)
	assert.Equal(t, "0 Bytes", r.Memory)
	assert.False(t, r.Slow)
	assert.Equal(t, 0, q.Len())
}

func TestMonitor_FallbackRenderTimeAlert(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		slow  bool
	}{
		{"fast", 100 * time.Millisecond, false},
		{"exactly at threshold", 3 * time.Second, false},
		{"just over threshold", 3*time.Second + time.Millisecond, true},
		{"very slow", 10 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clock.NewManual(epoch)
			q := newQueue(c)
			m := New(DefaultConfig(),
				WithClock(c),
				WithSource(slowHost{clock: c, delay: tt.delay}),
				WithSink(q),
			)

			r := m.Start()
			assert.Equal(t, float64(tt.delay)/float64(time.Millisecond), r.RenderTime)
			assert.Equal(t, tt.slow, r.Slow)

			active := q.Active()
			if !tt.slow {
				assert.Empty(t, active)
				return
			}
			require.Len(t, active, 1)
			assert.Equal(t, "Page load time is slow. Consider optimizing assets.", active[0].Message)
			assert.Equal(t, notify.Warning, active[0].Level)
			assert.Equal(t, 5*time.Second, active[0].Duration)
		})
	}
}

func TestMonitor_NavigationTiming(t *testing.T) {
	c := clock.NewManual(epoch)
	q := newQueue(c)
	memory := uint64(1536)
	source := staticSource{
		nav: &NavigationTiming{
			RequestStart:   10,
			ResponseStart:  55.5,
			LoadEventStart: 900,
			LoadEventEnd:   4100,
		},
		memory: &memory,
	}

	r := New(DefaultConfig(), WithClock(c), WithSource(source), WithSink(q)).Start()

	assert.Equal(t, 45.5, r.NetworkLatency)
	assert.Equal(t, 3200.0, r.RenderTime)
	assert.Equal(t, uint64(1536), r.MemoryUsedBytes)
	assert.Equal(t, "1.5 KB", r.Memory)
	assert.True(t, r.Slow)
	assert.Equal(t, 1, q.Len())
}

func TestMonitor_ZeroLoadEventFallsBack(t *testing.T) {
	c := clock.NewManual(epoch)
	source := staticSource{nav: &NavigationTiming{RequestStart: 5, ResponseStart: 25}}

	r := New(DefaultConfig(), WithClock(c), WithSource(source)).Start()

	assert.Equal(t, 20.0, r.NetworkLatency)
	assert.Equal(t, 0.0, r.RenderTime)
}

func TestMonitor_StartRunsOnce(t *testing.T) {
	c := clock.NewManual(epoch)
	q := newQueue(c)
	var records int
	m := New(DefaultConfig(),
		WithClock(c),
		WithSource(slowHost{clock: c, delay: 5 * time.Second}),
		WithSink(q),
		WithDiagnosticLog(DiagnosticLogFunc(func(Report) { records++ })),
	)

	first := m.Start()
	second := m.Start()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, records)
	assert.Equal(t, 1, q.Len(), "the alert is evaluated exactly once")
}

func TestMonitor_ReadySignalRefreshesPageLoad(t *testing.T) {
	c := clock.NewManual(epoch)
	gate := NewReadyGate()
	m := New(DefaultConfig(), WithClock(c), WithDocument(gate))

	c.Advance(100 * time.Millisecond)
	r := m.Start()
	assert.False(t, r.DOMReady)
	assert.Equal(t, 100.0, r.PageLoadTime)

	c.Advance(400 * time.Millisecond)
	gate.MarkReady()

	samples := m.Samples()
	assert.True(t, samples.DOMReady)
	assert.Equal(t, 500.0, samples.PageLoadTime)
	assert.Equal(t, 100.0, m.Start().PageLoadTime, "the report is not rewritten")
}

func TestMonitor_LoadedDocumentNeverMarksReady(t *testing.T) {
	c := clock.NewManual(epoch)
	gate := NewReadyGate()
	gate.MarkReady()

	m := New(DefaultConfig(), WithClock(c), WithDocument(gate))
	m.Start()

	assert.False(t, m.Samples().DOMReady)
}

func TestMonitor_CustomConfig(t *testing.T) {
	c := clock.NewManual(epoch)
	q := newQueue(c)
	cfg := Config{
		SlowRenderThreshold:  500 * time.Millisecond,
		NotificationDuration: time.Second,
		SlowRenderMessage:    "slow",
	}
	source := staticSource{nav: &NavigationTiming{LoadEventStart: 0, LoadEventEnd: 600}}

	New(cfg, WithClock(c), WithSource(source), WithSink(q)).Start()

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "slow", active[0].Message)
	assert.Equal(t, time.Second, active[0].Duration)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "initializing", Initializing.String())
	assert.Equal(t, "sampling_complete", SamplingComplete.String())
	assert.Equal(t, "unknown", State(9).String())
}
