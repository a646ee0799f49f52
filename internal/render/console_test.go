package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestConsole_NonTTYAppendsChangedSurfaces(t *testing.T) {
	var buf bytes.Buffer
	c := clock.NewManual(epoch)
	con := NewConsole(ConsoleConfig{Writer: &buf, RefreshInterval: 50 * time.Millisecond, Clock: c})
	assert.False(t, con.IsTTY())

	con.Write("requests", "1")
	assert.Equal(t, "requests: 1\n", buf.String(), "first write paints at once")

	con.Write("requests", "2")
	con.Write("latency", "5ms")
	assert.Equal(t, "requests: 1\n", buf.String(), "writes during the refresh interval wait")

	con.Flush()
	assert.Equal(t, "requests: 1\nrequests: 2\nlatency: 5ms\n", buf.String())

	con.Flush()
	assert.Equal(t, "requests: 1\nrequests: 2\nlatency: 5ms\n", buf.String(), "nothing pending")
}

func TestConsole_RepaintsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	c := clock.NewManual(epoch)
	con := NewConsole(ConsoleConfig{Writer: &buf, RefreshInterval: 50 * time.Millisecond, Clock: c})

	con.Write("a", "1")
	con.Write("a", "2")
	c.Advance(50 * time.Millisecond)
	con.Write("a", "3")

	assert.Equal(t, "a: 1\na: 3\n", buf.String())
}

func TestConsole_TTYRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	c := clock.NewManual(epoch)
	con := NewConsole(ConsoleConfig{Writer: &buf, Clock: c, ForceTTY: true})

	con.Write("a", "1")
	con.Write("b", "2")
	con.Flush()

	out := buf.String()
	assert.Contains(t, out, clearLine)
	lines := strings.Split(StripANSI(out), "\n")
	assert.Contains(t, lines, "a: 1")
	assert.Contains(t, lines, "b: 2")
}

func TestConsole_EmptyTextShowsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	con := NewConsole(ConsoleConfig{Writer: &buf, Clock: clock.NewManual(epoch)})

	HideLoading(con, "table")
	assert.Equal(t, "table: -\n", buf.String())
}

func TestConsole_Colors(t *testing.T) {
	var buf bytes.Buffer
	con := NewConsole(ConsoleConfig{Writer: &buf, Clock: clock.NewManual(epoch), ForceColors: true})

	con.Write("a", "1")
	assert.Contains(t, buf.String(), colorCyan)
	assert.Equal(t, "a: 1\n", StripANSI(buf.String()))
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"\033[1mbold\033[0m", "bold"},
		{"\033[2K\033[3Aline", "line"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripANSI(tt.input))
	}
}
