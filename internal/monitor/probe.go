package monitor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"
)

// Histogram bounds for probe latencies, in microseconds.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// LatencyStats summarizes probe latencies.
type LatencyStats struct {
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P90   time.Duration `json:"p90"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithHTTPClient sets the client used for probe requests.
func WithHTTPClient(c *http.Client) ProbeOption {
	return func(p *Probe) {
		p.client = c
	}
}

// WithProbeLogger sets the probe's logger.
func WithProbeLogger(logger *zap.Logger) ProbeOption {
	return func(p *Probe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Probe measures page loads over HTTP. It is a TimingSource whose navigation
// entry is the first successful sample:
//
//	requestStart   the request was written
//	responseStart  the first response byte arrived
//	loadEventStart body transfer began
//	loadEventEnd   body transfer finished
//
// Every sample's total latency is recorded in an HDR histogram.
type Probe struct {
	url    string
	client *http.Client
	logger *zap.Logger

	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	first    *NavigationTiming
	failures int64
}

// NewProbe creates a probe for url.
func NewProbe(url string, opts ...ProbeOption) *Probe {
	p := &Probe{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zap.NewNop(),
		hist:   hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sample loads the page once and returns its navigation timing.
func (p *Probe) Sample(ctx context.Context) (NavigationTiming, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return NavigationTiming{}, fmt.Errorf("failed to build probe request: %w", err)
	}

	start := time.Now()
	var traceMu sync.Mutex
	var wroteRequest, firstByte time.Time

	trace := &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) {
			traceMu.Lock()
			wroteRequest = time.Now()
			traceMu.Unlock()
		},
		GotFirstResponseByte: func() {
			traceMu.Lock()
			firstByte = time.Now()
			traceMu.Unlock()
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(ctx, trace))

	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(err)
		return NavigationTiming{}, fmt.Errorf("probe request failed: %w", err)
	}

	transferStart := time.Now()
	_, copyErr := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	transferEnd := time.Now()

	if copyErr != nil {
		p.fail(copyErr)
		return NavigationTiming{}, fmt.Errorf("failed to read probe response: %w", copyErr)
	}

	traceMu.Lock()
	if wroteRequest.IsZero() {
		wroteRequest = start
	}
	if firstByte.IsZero() {
		firstByte = transferStart
	}
	timing := NavigationTiming{
		RequestStart:   millis(wroteRequest.Sub(start)),
		ResponseStart:  millis(firstByte.Sub(start)),
		LoadEventStart: millis(transferStart.Sub(start)),
		LoadEventEnd:   millis(transferEnd.Sub(start)),
	}
	traceMu.Unlock()

	p.record(timing, transferEnd.Sub(start))

	p.logger.Debug("probe sample",
		zap.String("url", p.url),
		zap.Int("status", resp.StatusCode),
		zap.Float64("networkLatencyMs", timing.NetworkLatency()),
		zap.Float64("renderTimeMs", timing.RenderTime()),
	)

	return timing, nil
}

// HDR histogram RecordValue is not thread-safe, so it is called with mu held.
func (p *Probe) record(timing NavigationTiming, total time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	micros := total.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if err := p.hist.RecordValue(micros); err != nil {
		p.logger.Warn("latency sample out of range",
			zap.String("url", p.url),
			zap.Int64("micros", micros),
			zap.Error(err),
		)
	}

	if p.first == nil {
		p.first = &timing
	}
}

func (p *Probe) fail(err error) {
	p.mu.Lock()
	p.failures++
	p.mu.Unlock()

	p.logger.Warn("probe failed", zap.String("url", p.url), zap.Error(err))
}

// NavigationTiming implements TimingSource.
func (p *Probe) NavigationTiming() (NavigationTiming, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.first == nil {
		return NavigationTiming{}, false
	}
	return *p.first, true
}

// MemoryUsage implements TimingSource. A remote page's memory is unknown.
func (p *Probe) MemoryUsage() (uint64, bool) {
	return 0, false
}

// Failures returns the number of failed samples.
func (p *Probe) Failures() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Stats returns latency statistics over all successful samples.
func (p *Probe) Stats() LatencyStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hist.TotalCount() == 0 {
		return LatencyStats{}
	}

	return LatencyStats{
		Count: p.hist.TotalCount(),
		Min:   time.Duration(p.hist.Min()) * time.Microsecond,
		Mean:  time.Duration(p.hist.Mean()) * time.Microsecond,
		P50:   time.Duration(p.hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:   time.Duration(p.hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:   time.Duration(p.hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(p.hist.ValueAtQuantile(99)) * time.Microsecond,
		Max:   time.Duration(p.hist.Max()) * time.Microsecond,
	}
}
