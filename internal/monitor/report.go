package monitor

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aaditya-jx/loadbalancing/internal/format"
)

// Report is the result of sampling a page session. RenderTime is the
// effective render time: the measured load event duration, or the wall-clock
// time spent sampling when the host did not report one.
type Report struct {
	PageLoadTime    float64 `json:"pageLoadTime"`
	DOMReady        bool    `json:"domContentLoaded"`
	RenderTime      float64 `json:"renderTime"`
	NetworkLatency  float64 `json:"networkLatency"`
	MemoryUsedBytes uint64  `json:"memoryUsedBytes"`
	Memory          string  `json:"memoryUsage"`
	Slow            bool    `json:"slow"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r Report) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pageLoadTime", format.Millis(r.PageLoadTime))
	enc.AddBool("domContentLoaded", r.DOMReady)
	enc.AddString("renderTime", format.Millis(r.RenderTime))
	enc.AddString("networkLatency", format.Millis(r.NetworkLatency))
	enc.AddString("memoryUsage", r.Memory)
	return nil
}

// DiagnosticLog records performance reports.
type DiagnosticLog interface {
	Record(Report)
}

// DiagnosticLogFunc adapts a function to the DiagnosticLog interface.
type DiagnosticLogFunc func(Report)

// Record calls f(r).
func (f DiagnosticLogFunc) Record(r Report) {
	f(r)
}

// ZapLog writes each report as one structured log entry.
type ZapLog struct {
	logger *zap.Logger
}

// NewZapLog creates a ZapLog. A nil logger discards reports.
func NewZapLog(logger *zap.Logger) *ZapLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLog{logger: logger}
}

// Record implements DiagnosticLog.
func (l *ZapLog) Record(r Report) {
	l.logger.Info("performance metrics", zap.Object("metrics", r))
}
