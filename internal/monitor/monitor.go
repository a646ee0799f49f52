// Package monitor samples page-load timing and memory once per page session
// and raises a notification when rendering was slow.
//
// A Monitor is built with New and sampled with Start. Host measurements come
// from a TimingSource; every capability is optional and defaults to zero
// when the host does not provide it.
package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
	"github.com/Aaditya-jx/loadbalancing/internal/format"
	"github.com/Aaditya-jx/loadbalancing/internal/notify"
)

// Defaults for Config.
const (
	DefaultSlowRenderThreshold  = 3 * time.Second
	DefaultNotificationDuration = notify.DefaultDuration
	DefaultSlowRenderMessage    = "Page load time is slow. Consider optimizing assets."
)

// Config controls the slow-render alert.
type Config struct {
	// SlowRenderThreshold is the render time above which the alert fires.
	SlowRenderThreshold time.Duration

	// NotificationDuration is how long the alert stays visible.
	NotificationDuration time.Duration

	// SlowRenderMessage is the alert text.
	SlowRenderMessage string
}

// DefaultConfig returns the default alert settings.
func DefaultConfig() Config {
	return Config{
		SlowRenderThreshold:  DefaultSlowRenderThreshold,
		NotificationDuration: DefaultNotificationDuration,
		SlowRenderMessage:    DefaultSlowRenderMessage,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SlowRenderThreshold <= 0 {
		c.SlowRenderThreshold = d.SlowRenderThreshold
	}
	if c.NotificationDuration <= 0 {
		c.NotificationDuration = d.NotificationDuration
	}
	if c.SlowRenderMessage == "" {
		c.SlowRenderMessage = d.SlowRenderMessage
	}
	return c
}

// State is the lifecycle state of a Monitor.
type State int

const (
	Initializing State = iota
	SamplingComplete
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case SamplingComplete:
		return "sampling_complete"
	default:
		return "unknown"
	}
}

// SampleSet holds the raw measurements of one page session. Times are in
// milliseconds.
type SampleSet struct {
	PageLoadTime    float64 `json:"pageLoadTime"`
	DOMReady        bool    `json:"domContentLoaded"`
	RenderTime      float64 `json:"renderTime"`
	NetworkLatency  float64 `json:"networkLatency"`
	MemoryUsedBytes uint64  `json:"memoryUsedBytes"`
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// WithOrigin sets the time the page session started. It defaults to the
// moment New is called.
func WithOrigin(t time.Time) Option {
	return func(m *Monitor) {
		m.origin = t
	}
}

// WithSource sets the host timing source.
func WithSource(s TimingSource) Option {
	return func(m *Monitor) {
		m.source = s
	}
}

// WithDocument sets the document whose readiness is observed.
func WithDocument(d Document) Option {
	return func(m *Monitor) {
		m.document = d
	}
}

// WithSink sets where the slow-render alert goes.
func WithSink(s notify.Sink) Option {
	return func(m *Monitor) {
		m.sink = s
	}
}

// WithDiagnosticLog sets where the report is recorded.
func WithDiagnosticLog(l DiagnosticLog) Option {
	return func(m *Monitor) {
		m.log = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Monitor measures one page session.
type Monitor struct {
	cfg      Config
	clock    clock.Clock
	origin   time.Time
	source   TimingSource
	document Document
	sink     notify.Sink
	log      DiagnosticLog
	logger   *zap.Logger

	once   sync.Once
	report Report

	mu      sync.Mutex
	state   State
	samples SampleSet
}

// New creates a Monitor. Unset collaborators default to a host without
// capabilities, an already loaded document, a discarding sink and a no-op
// diagnostic log.
func New(cfg Config, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:      cfg.withDefaults(),
		clock:    clock.Real(),
		source:   NoCapabilities{},
		document: Loaded{},
		sink:     notify.Discard,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.origin.IsZero() {
		m.origin = m.clock.Now()
	}
	if m.log == nil {
		m.log = DiagnosticLogFunc(func(Report) {})
	}
	m.logger = m.logger.Named("monitor")
	return m
}

// Start samples the session, records the report and evaluates the
// slow-render alert. It runs once; later calls return the first report.
func (m *Monitor) Start() Report {
	m.once.Do(func() {
		m.report = m.sample()
	})
	return m.report
}

func (m *Monitor) sample() Report {
	m.mu.Lock()
	m.samples.PageLoadTime = m.sinceOrigin()
	m.mu.Unlock()

	if m.document.Loading() {
		m.document.OnReady(m.ready)
	}

	var network, render float64
	if nav, ok := m.source.NavigationTiming(); ok {
		network = nav.NetworkLatency()
		render = nav.RenderTime()
	}

	var memory uint64
	if used, ok := m.source.MemoryUsage(); ok {
		memory = used
	}

	m.mu.Lock()
	m.samples.NetworkLatency = network
	m.samples.RenderTime = render
	m.samples.MemoryUsedBytes = memory
	m.state = SamplingComplete
	samples := m.samples
	m.mu.Unlock()

	effective := samples.RenderTime
	if effective == 0 {
		effective = m.sinceOrigin() - samples.PageLoadTime
	}

	report := Report{
		PageLoadTime:    samples.PageLoadTime,
		DOMReady:        samples.DOMReady,
		RenderTime:      effective,
		NetworkLatency:  samples.NetworkLatency,
		MemoryUsedBytes: samples.MemoryUsedBytes,
		Memory:          format.Bytes(samples.MemoryUsedBytes),
		Slow:            effective > millis(m.cfg.SlowRenderThreshold),
	}

	m.log.Record(report)

	if report.Slow {
		m.logger.Warn("slow render",
			zap.Float64("renderTimeMs", effective),
			zap.Duration("threshold", m.cfg.SlowRenderThreshold),
		)
		m.sink.Enqueue(m.cfg.SlowRenderMessage, notify.Warning, m.cfg.NotificationDuration)
	}

	return report
}

func (m *Monitor) ready() {
	m.mu.Lock()
	m.samples.DOMReady = true
	m.samples.PageLoadTime = m.sinceOrigin()
	pageLoad := m.samples.PageLoadTime
	m.mu.Unlock()

	m.logger.Debug("document ready", zap.Float64("pageLoadTimeMs", pageLoad))
}

// State returns the lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Samples returns the current measurements, including a page load time
// refreshed by a ready signal that arrived after Start.
func (m *Monitor) Samples() SampleSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.samples
}

func (m *Monitor) sinceOrigin() float64 {
	return millis(m.clock.Now().Sub(m.origin))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
