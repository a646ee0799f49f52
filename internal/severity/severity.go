// Package severity maps alert severities and server status to the color
// tokens used by charts, badges and terminal output.
package severity

import (
	"strings"

	"github.com/fatih/color"
)

// Severity is the importance of a data point or alert.
type Severity string

const (
	Critical Severity = "critical"
	High     Severity = "high"
	Medium   Severity = "medium"
	Low      Severity = "low"
	Info     Severity = "info"
)

// Status color tokens.
const (
	StatusUp   = "#10b981"
	StatusDown = "#ef4444"
)

var colors = map[Severity]string{
	Critical: "#ef4444",
	High:     "#f59e0b",
	Medium:   "#3b82f6",
	Low:      "#10b981",
	Info:     "#6b7280",
}

// All returns every severity from most to least important.
func All() []Severity {
	return []Severity{Critical, High, Medium, Low, Info}
}

// Parse resolves s case-insensitively. Unknown or empty input is Info.
func Parse(s string) Severity {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := colors[sev]; ok {
		return sev
	}
	return Info
}

// Color returns the color token for s.
func (s Severity) Color() string {
	return colors[Parse(string(s))]
}

// Color returns the color token for the named severity. It never fails:
// unrecognized names get the info color.
func Color(name string) string {
	return colors[Parse(name)]
}

// StatusColor returns the color token for an up or down server.
func StatusColor(up bool) string {
	if up {
		return StatusUp
	}
	return StatusDown
}

// Terminal returns the terminal color used to print s.
func Terminal(s Severity) *color.Color {
	switch Parse(string(s)) {
	case Critical:
		return color.New(color.FgRed, color.Bold)
	case High:
		return color.New(color.FgYellow)
	case Medium:
		return color.New(color.FgBlue)
	case Low:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgHiBlack)
	}
}
