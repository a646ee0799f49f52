package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBeacon(t *testing.T) {
	b, err := ParseBeacon([]byte(`{
		"entryType": "navigation",
		"name": "http://localhost:8080/",
		"requestStart": 12.5,
		"responseStart": 40,
		"loadEventStart": 950,
		"loadEventEnd": 1010.25,
		"memory": {"usedJSHeapSize": 2097152, "totalJSHeapSize": 4194304}
	}`))
	require.NoError(t, err)

	nav, ok := b.NavigationTiming()
	require.True(t, ok)
	assert.Equal(t, 27.5, nav.NetworkLatency())
	assert.Equal(t, 60.25, nav.RenderTime())

	used, ok := b.MemoryUsage()
	require.True(t, ok)
	assert.Equal(t, uint64(2097152), used)
}

func TestParseBeacon_MissingFieldsDegrade(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		hasNav    bool
		hasMemory bool
	}{
		{"empty object", `{}`, false, false},
		{"memory only", `{"memory": {"usedJSHeapSize": 10}}`, false, true},
		{"memory without heap size", `{"memory": {}}`, false, false},
		{"navigation without load event", `{"requestStart": 1, "responseStart": 2}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBeacon([]byte(tt.input))
			require.NoError(t, err)

			_, ok := b.NavigationTiming()
			assert.Equal(t, tt.hasNav, ok)
			_, ok = b.MemoryUsage()
			assert.Equal(t, tt.hasMemory, ok)
		})
	}
}

func TestParseBeacon_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"requestStart":`},
		{"not an object", `[1, 2]`},
		{"string timing", `{"requestStart": "soon", "responseStart": 2}`},
		{"negative timing", `{"requestStart": -1, "responseStart": 2}`},
		{"request without response", `{"requestStart": 1}`},
		{"fractional heap size", `{"memory": {"usedJSHeapSize": 1.5}}`},
		{"wrong entry type", `{"entryType": "resource"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBeacon([]byte(tt.input))
			assert.ErrorIs(t, err, ErrInvalidBeacon)
			assert.Nil(t, b)
		})
	}
}

func TestBeacon_DrivesMonitor(t *testing.T) {
	b, err := ParseBeacon([]byte(`{"requestStart": 0, "responseStart": 80, "loadEventStart": 100, "loadEventEnd": 3500}`))
	require.NoError(t, err)

	r := New(DefaultConfig(), WithSource(Combine(b, NoCapabilities{}))).Start()
	assert.Equal(t, 80.0, r.NetworkLatency)
	assert.Equal(t, 3400.0, r.RenderTime)
	assert.True(t, r.Slow)
}
