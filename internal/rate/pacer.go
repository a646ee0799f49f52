package rate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

// Pacer spaces repeated work at a fixed rate using the leaky bucket
// algorithm: it answers "when may the next sample start" rather than "how
// many samples are left".
//
// The first Next returns immediately. Falling behind schedule never causes a
// burst larger than one sample.
//
//	p := rate.NewPacer(2.0) // two probes per second
//	for i := 0; i < samples; i++ {
//	    if err := p.Wait(ctx); err != nil {
//	        return err
//	    }
//	    probe.Sample(ctx)
//	}
type Pacer struct {
	clock clock.Clock

	mu          sync.Mutex
	perSecond   float64
	lastDrip    time.Time
	accumulated float64

	scheduled atomic.Int64
	waited    atomic.Int64
}

// NewPacer creates a Pacer that releases perSecond iterations per second.
// A non-positive rate defaults to 1.
func NewPacer(perSecond float64, opts ...Option) *Pacer {
	o := newOptions(opts)
	if perSecond <= 0 {
		perSecond = 1.0
	}
	return &Pacer{
		clock:       o.clock,
		perSecond:   perSecond,
		lastDrip:    o.clock.Now(),
		accumulated: 1.0,
	}
}

// Next reserves the next slot and returns when it starts. The returned time
// is now (or earlier) when the caller may proceed immediately.
func (p *Pacer) Next() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	base := now
	if p.lastDrip.After(now) {
		// A slot is already reserved in the future; queue behind it.
		base = p.lastDrip
	} else {
		p.accumulated += now.Sub(p.lastDrip).Seconds() * p.perSecond
		if p.accumulated > 1.0 {
			p.accumulated = 1.0
		}
	}
	p.scheduled.Add(1)

	if p.accumulated >= 1.0 {
		p.accumulated -= 1.0
		p.lastDrip = now
		return now
	}

	deficit := 1.0 - p.accumulated
	next := base.Add(time.Duration(deficit / p.perSecond * float64(time.Second)))
	p.accumulated = 0
	// lastDrip moves to the reserved slot so waking up at next does not
	// count the same interval twice.
	p.lastDrip = next
	p.waited.Add(int64(next.Sub(now)))

	return next
}

// Wait blocks until the next slot starts or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	delay := p.Next().Sub(p.clock.Now())
	if delay <= 0 {
		return ctx.Err()
	}

	ready := make(chan struct{})
	timer := p.clock.AfterFunc(delay, func() { close(ready) })
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ready:
		return nil
	}
}

// SetRate changes the rate. Accumulated credit is discarded so a rate drop
// cannot release a burst.
func (p *Pacer) SetRate(perSecond float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if perSecond <= 0 {
		perSecond = 1.0
	}
	p.perSecond = perSecond
	p.accumulated = 0
	p.lastDrip = p.clock.Now()
}

// Rate returns the current rate in iterations per second.
func (p *Pacer) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.perSecond
}

// Stats returns pacing counters.
func (p *Pacer) Stats() PacerStats {
	return PacerStats{
		Rate:      p.Rate(),
		Scheduled: p.scheduled.Load(),
		Waited:    time.Duration(p.waited.Load()),
	}
}

// PacerStats summarizes a Pacer's activity.
type PacerStats struct {
	Rate      float64       `json:"rate"`
	Scheduled int64         `json:"scheduled"`
	Waited    time.Duration `json:"waited"`
}
