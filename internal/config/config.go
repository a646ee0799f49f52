// Package config loads dashboard settings from YAML or JSON files.
package config

import (
	"time"
)

// Config is the top-level dashboard configuration.
type Config struct {
	Monitor       MonitorConfig       `json:"monitor" yaml:"monitor"`
	Animation     AnimationConfig     `json:"animation" yaml:"animation"`
	Limits        LimitsConfig        `json:"limits" yaml:"limits"`
	Notifications NotificationsConfig `json:"notifications" yaml:"notifications"`
	Server        ServerConfig        `json:"server" yaml:"server"`
	Logging       LoggingConfig       `json:"logging" yaml:"logging"`
	Chart         ChartConfig         `json:"chart" yaml:"chart"`
}

// MonitorConfig controls the slow-render alert.
type MonitorConfig struct {
	// SlowRenderThreshold is the render time above which the alert fires
	SlowRenderThreshold Duration `json:"slowRenderThreshold,omitempty" yaml:"slowRenderThreshold,omitempty"`

	// NotificationDuration is how long the alert stays visible
	NotificationDuration Duration `json:"notificationDuration,omitempty" yaml:"notificationDuration,omitempty"`

	// SlowRenderMessage is the alert text
	SlowRenderMessage string `json:"slowRenderMessage,omitempty" yaml:"slowRenderMessage,omitempty"`
}

// AnimationConfig controls counter animations.
type AnimationConfig struct {
	// FrameInterval is the time between two frames (e.g., "16ms")
	FrameInterval Duration `json:"frameInterval,omitempty" yaml:"frameInterval,omitempty"`

	// Overshoot shows the final accumulated value instead of the exact target
	Overshoot bool `json:"overshoot,omitempty" yaml:"overshoot,omitempty"`

	// MaxDuration is the longest animation the server accepts
	MaxDuration Duration `json:"maxDuration,omitempty" yaml:"maxDuration,omitempty"`
}

// LimitsConfig holds the windows of the rate limiters.
type LimitsConfig struct {
	// Debounce is the quiet window for debounced handlers such as config reload
	Debounce Duration `json:"debounce,omitempty" yaml:"debounce,omitempty"`

	// Throttle is the cooldown for throttled handlers such as console repaint
	Throttle Duration `json:"throttle,omitempty" yaml:"throttle,omitempty"`

	// ProbeRate is the number of probe samples per second
	ProbeRate float64 `json:"probeRate,omitempty" yaml:"probeRate,omitempty"`
}

// NotificationsConfig holds notification defaults.
type NotificationsConfig struct {
	DefaultDuration Duration `json:"defaultDuration,omitempty" yaml:"defaultDuration,omitempty"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// AllowedOrigins are host patterns accepted for websocket connections
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Development enables stack traces on warnings and panics on DPanic
	Development bool `json:"development,omitempty" yaml:"development,omitempty"`

	// Encoding is json or console
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// ChartConfig selects chart presets.
type ChartConfig struct {
	// Theme is dark or light
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Default values.
const (
	DefaultSlowRenderThreshold  = 3 * time.Second
	DefaultNotificationDuration = 5 * time.Second
	DefaultSlowRenderMessage    = "Page load time is slow. Consider optimizing assets."
	DefaultFrameInterval        = 16 * time.Millisecond
	DefaultMaxAnimation         = time.Minute
	DefaultDebounce             = 250 * time.Millisecond
	DefaultThrottle             = 100 * time.Millisecond
	DefaultProbeRate            = 2.0
	DefaultAddr                 = "127.0.0.1:8080"
	DefaultLogLevel             = "info"
	DefaultLogEncoding          = "console"
	DefaultChartTheme           = "dark"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Monitor.SlowRenderThreshold == 0 {
		c.Monitor.SlowRenderThreshold = Duration(DefaultSlowRenderThreshold)
	}
	if c.Monitor.NotificationDuration == 0 {
		c.Monitor.NotificationDuration = Duration(DefaultNotificationDuration)
	}
	if c.Monitor.SlowRenderMessage == "" {
		c.Monitor.SlowRenderMessage = DefaultSlowRenderMessage
	}
	if c.Animation.FrameInterval == 0 {
		c.Animation.FrameInterval = Duration(DefaultFrameInterval)
	}
	if c.Animation.MaxDuration == 0 {
		c.Animation.MaxDuration = Duration(DefaultMaxAnimation)
	}
	if c.Limits.Debounce == 0 {
		c.Limits.Debounce = Duration(DefaultDebounce)
	}
	if c.Limits.Throttle == 0 {
		c.Limits.Throttle = Duration(DefaultThrottle)
	}
	if c.Limits.ProbeRate == 0 {
		c.Limits.ProbeRate = DefaultProbeRate
	}
	if c.Notifications.DefaultDuration == 0 {
		c.Notifications.DefaultDuration = Duration(DefaultNotificationDuration)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = DefaultLogEncoding
	}
	if c.Chart.Theme == "" {
		c.Chart.Theme = DefaultChartTheme
	}
}
