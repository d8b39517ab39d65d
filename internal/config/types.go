package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = "dotenv"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultBaseURL                = "http://localhost:5004"
	DefaultTimeoutSeconds         = 10
	DefaultActionReloadDelayMS    = 500
	DefaultNotificationTTLSeconds = 5
	DefaultLogDir                 = "~/.todoctl/logs"
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "text"
	DefaultTelemetryExporter      = "stdout"
	DefaultServiceName            = "todoctl"
)

// Config holds the full configuration for todoctl.
type Config struct {
	// Backend
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// Sync behavior
	ActionReloadDelayMS int  `toml:"action_reload_delay_ms"`
	PartialToggle       bool `toml:"partial_toggle"`

	// UI
	NotificationTTLSeconds int    `toml:"notification_ttl_seconds"`
	DefaultFilter          string `toml:"default_filter"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	Telemetry TelemetryConfig `toml:"telemetry"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled"`
	Exporter    string `toml:"exporter"`
	Endpoint    string `toml:"endpoint"`
	ServiceName string `toml:"service_name"`
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ActionReloadDelay returns the pause before reloading after a chat action.
func (c *Config) ActionReloadDelay() time.Duration {
	return time.Duration(c.ActionReloadDelayMS) * time.Millisecond
}

// NotificationTTL returns how long toasts stay visible.
func (c *Config) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationTTLSeconds) * time.Second
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.ActionReloadDelayMS = DefaultActionReloadDelayMS
	cfg.PartialToggle = false
	cfg.NotificationTTLSeconds = DefaultNotificationTTLSeconds
	cfg.DefaultFilter = "all"
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
	cfg.Telemetry = TelemetryConfig{
		Enabled:     false,
		Exporter:    DefaultTelemetryExporter,
		ServiceName: DefaultServiceName,
	}
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"base_url",
		"timeout_seconds",
		"action_reload_delay_ms",
		"partial_toggle",
		"notification_ttl_seconds",
		"default_filter",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"telemetry.enabled",
		"telemetry.exporter",
		"telemetry.endpoint",
		"telemetry.service_name",
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the display form of a field, for `todoctl config`.
func (c *Config) Value(field string) string {
	switch field {
	case "base_url":
		return c.BaseURL
	case "timeout_seconds":
		return itoa(c.TimeoutSeconds)
	case "action_reload_delay_ms":
		return itoa(c.ActionReloadDelayMS)
	case "partial_toggle":
		return btoa(c.PartialToggle)
	case "notification_ttl_seconds":
		return itoa(c.NotificationTTLSeconds)
	case "default_filter":
		return c.DefaultFilter
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return btoa(c.LogTimestamps)
	case "log_caller":
		return btoa(c.LogCaller)
	case "telemetry.enabled":
		return btoa(c.Telemetry.Enabled)
	case "telemetry.exporter":
		return c.Telemetry.Exporter
	case "telemetry.endpoint":
		return c.Telemetry.Endpoint
	case "telemetry.service_name":
		return c.Telemetry.ServiceName
	}
	return ""
}
