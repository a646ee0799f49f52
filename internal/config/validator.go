package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

var (
	validLogLevels    = []string{"debug", "info", "warn", "error"}
	validLogEncodings = []string{"json", "console"}
	validChartThemes  = []string{"dark", "light"}
)

// Validate checks the configuration after defaults have been applied.
//
// Returns nil if valid, or a *ValidationErrors containing every problem.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	positive := func(field string, d Duration) {
		if d <= 0 {
			errs.Add(field, "must be positive")
		}
	}
	positive("monitor.slowRenderThreshold", c.Monitor.SlowRenderThreshold)
	positive("monitor.notificationDuration", c.Monitor.NotificationDuration)
	positive("animation.frameInterval", c.Animation.FrameInterval)
	positive("animation.maxDuration", c.Animation.MaxDuration)
	positive("limits.debounce", c.Limits.Debounce)
	positive("limits.throttle", c.Limits.Throttle)
	positive("notifications.defaultDuration", c.Notifications.DefaultDuration)

	if c.Limits.ProbeRate <= 0 {
		errs.Add("limits.probeRate", "must be positive")
	}

	if c.Server.Addr == "" {
		errs.Add("server.addr", "is required")
	}
	for i, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			errs.Add(fmt.Sprintf("server.allowedOrigins[%d]", i), "must not be empty")
		}
	}

	oneOf("logging.level", c.Logging.Level, validLogLevels, errs)
	oneOf("logging.encoding", c.Logging.Encoding, validLogEncodings, errs)
	oneOf("chart.theme", c.Chart.Theme, validChartThemes, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func oneOf(field, value string, valid []string, errs *ValidationErrors) {
	for _, v := range valid {
		if strings.EqualFold(value, v) {
			return
		}
	}
	errs.Add(field, fmt.Sprintf("invalid value '%s', must be one of: %s", value, strings.Join(valid, ", ")))
}
