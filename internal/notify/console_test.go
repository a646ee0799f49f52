package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{Info, "ℹ"},
		{Success, "✓"},
		{Warning, "⚠"},
		{Danger, "✗"},
		{"", "ℹ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Icon(tt.level, true))
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	c.Enqueue("Page load time is slow. Consider optimizing assets.", Warning, 5*time.Second)
	c.Enqueue("An unexpected error occurred. Please refresh the page.", Danger, 5*time.Second)

	assert.Equal(t,
		"⚠ Page load time is slow. Consider optimizing assets.\n"+
			"✗ An unexpected error occurred. Please refresh the page.\n",
		buf.String())
}
