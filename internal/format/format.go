// Package format turns dashboard values into display text: grouped numbers,
// byte sizes, uptimes, durations and CSV.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter formats numbers using the grouping and decimal rules of a locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter(language.English)

// Number formats an integer with locale digit grouping, e.g. 1234567 -> "1,234,567".
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Decimal formats v with digit grouping and at most three fraction digits.
func (f *Formatter) Decimal(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// Number formats n with English digit grouping.
func Number(n int64) string {
	return defaultFormatter.Number(n)
}

// Decimal formats v with English digit grouping.
func Decimal(v float64) string {
	return defaultFormatter.Decimal(v)
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Bytes formats a byte count with 1024-based units and up to two decimals,
// dropping trailing zeros: 0 -> "0 Bytes", 1536 -> "1.5 KB", 1048576 -> "1 MB".
// Values beyond the terabyte range are expressed in TB.
func Bytes(n uint64) string {
	if n == 0 {
		return "0 Bytes"
	}

	value := float64(n)
	unit := 0
	for value >= 1024 && unit < len(byteUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[unit]
}

// Uptime formats a number of seconds as days, hours and minutes, omitting
// leading zero units: "2d 3h 4m", "3h 4m", "4m".
func Uptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Duration formats an elapsed wall-clock span. Sub-second spans keep
// millisecond precision and spans under a minute keep one decimal.
func Duration(d time.Duration) string {
	whole := d.Truncate(time.Second)
	hours := int64(whole / time.Hour)
	minutes := int64(whole/time.Minute) % 60
	seconds := int64(whole/time.Second) % 60

	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case hours == 0:
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

// DurationShort formats a latency-sized duration.
func DurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Millis formats a millisecond measurement with two decimals, e.g. "12.34ms".
func Millis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', 2, 64) + "ms"
}
