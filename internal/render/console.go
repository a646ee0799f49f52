package render

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Aaditya-jx/loadbalancing/internal/clock"
	"github.com/Aaditya-jx/loadbalancing/internal/rate"
)

// ANSI escape codes for cursor control and colors
const (
	cursorUp  = "\033[%dA" // Move cursor up N lines
	clearLine = "\033[2K"  // Clear entire line

	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorCyan  = "\033[36m"
)

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer io.Writer

	// RefreshInterval bounds how often a terminal is repainted.
	RefreshInterval time.Duration

	Clock       clock.Clock
	ForceTTY    bool
	ForceColors bool
}

// Console renders surfaces as a live block of lines on a terminal.
//
// On a TTY the block is redrawn in place, at most once per RefreshInterval;
// Flush paints the latest state. On other writers each repaint appends one
// "surface: text" line per changed surface.
type Console struct {
	writer    io.Writer
	isTTY     bool
	useColors bool
	repaint   *rate.Throttler[struct{}]

	mu          sync.Mutex
	order       []string
	current     map[string]string
	dirty       map[string]bool
	linesOutput int
}

// NewConsole creates a console renderer.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = 50 * time.Millisecond
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}

	isTTY := config.ForceTTY || isTerminal(config.Writer)
	c := &Console{
		writer:    config.Writer,
		isTTY:     isTTY,
		useColors: config.ForceColors || (isTTY && supportsColors()),
		current:   make(map[string]string),
		dirty:     make(map[string]bool),
	}
	c.repaint = rate.NewThrottler(func(struct{}) error {
		c.Flush()
		return nil
	}, config.RefreshInterval, rate.WithClock(config.Clock))

	return c
}

// Write updates a surface and schedules a repaint.
func (c *Console) Write(surfaceID, text string) {
	c.mu.Lock()
	if _, ok := c.current[surfaceID]; !ok {
		c.order = append(c.order, surfaceID)
	}
	c.current[surfaceID] = text
	c.dirty[surfaceID] = true
	c.mu.Unlock()

	_ = c.repaint.Call(struct{}{})
}

// Flush paints pending changes immediately.
func (c *Console) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.dirty) == 0 {
		return
	}

	if !c.isTTY {
		for _, id := range c.order {
			if c.dirty[id] {
				c.writeln(c.line(id))
			}
		}
		c.dirty = make(map[string]bool)
		return
	}

	// Clear previous output
	if c.linesOutput > 0 {
		c.write(fmt.Sprintf(cursorUp, c.linesOutput))
		for i := 0; i < c.linesOutput; i++ {
			c.write(clearLine)
			if i < c.linesOutput-1 {
				c.write("\n")
			}
		}
		if c.linesOutput > 1 {
			c.write(fmt.Sprintf(cursorUp, c.linesOutput-1))
		}
		c.write("\r")
	}

	for _, id := range c.order {
		c.writeln(c.line(id))
	}
	c.linesOutput = len(c.order)
	c.dirty = make(map[string]bool)
}

// IsTTY returns whether the output is a terminal.
func (c *Console) IsTTY() bool {
	return c.isTTY
}

func (c *Console) line(id string) string {
	text := c.current[id]
	if text == "" {
		text = c.colorize("-", colorDim)
	}
	return c.colorize(id+":", colorBold+colorCyan) + " " + text
}

// write writes to the output without a newline.
func (c *Console) write(s string) {
	fmt.Fprint(c.writer, s)
}

// writeln writes to the output with a newline.
func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// colorize wraps text in color codes if colors are enabled.
func (c *Console) colorize(text, color string) string {
	if !c.useColors {
		return text
	}
	return color + text + colorReset
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// supportsColors checks if the terminal supports colors.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if runtime.GOOS == "windows" {
		return true
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}

	return result.String()
}
