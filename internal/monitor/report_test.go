package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLog_Record(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLog(zap.New(core))

	log.Record(Report{
		PageLoadTime:    1234.5678,
		DOMReady:        true,
		RenderTime:      12,
		NetworkLatency:  3.4,
		MemoryUsedBytes: 1048576,
		Memory:          "1 MB",
	})

	entries := logs.FilterMessage("performance metrics").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	metrics, ok := fields["metrics"].(map[string]interface{})
	require.True(t, ok, "metrics is logged as an object")
	assert.Equal(t, "1234.57ms", metrics["pageLoadTime"])
	assert.Equal(t, true, metrics["domContentLoaded"])
	assert.Equal(t, "12.00ms", metrics["renderTime"])
	assert.Equal(t, "3.40ms", metrics["networkLatency"])
	assert.Equal(t, "1 MB", metrics["memoryUsage"])
}

func TestZapLog_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { NewZapLog(nil).Record(Report{}) })
}

func TestMonitor_RecordsToZapLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	m := New(DefaultConfig(), WithDiagnosticLog(NewZapLog(logger)), WithLogger(logger))
	m.Start()

	assert.Equal(t, 1, logs.FilterMessage("performance metrics").Len())
}
