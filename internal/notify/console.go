package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Icon returns the symbol printed before a notification of level l.
func Icon(l Level, noColor bool) string {
	var symbol string
	var c *color.Color

	switch l {
	case Success:
		symbol, c = "✓", color.New(color.FgGreen)
	case Warning:
		symbol, c = "⚠", color.New(color.FgYellow)
	case Danger:
		symbol, c = "✗", color.New(color.FgRed)
	default:
		symbol, c = "ℹ", color.New(color.FgBlue)
	}

	if noColor {
		return symbol
	}
	return c.Sprint(symbol)
}

// Console prints notifications as single lines on a terminal. Lines are
// written once and never removed, so the duration is ignored.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	noColor bool
}

// NewConsole creates a console sink writing to w (stderr when nil).
func NewConsole(w io.Writer, noColor bool) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{w: w, noColor: noColor}
}

// Enqueue implements Sink.
func (c *Console) Enqueue(message string, level Level, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", Icon(level, c.noColor), message)
}
