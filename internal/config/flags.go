package config

import "flag"

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"base-url":           "base_url",
	"timeout":            "timeout_seconds",
	"action-delay":       "action_reload_delay_ms",
	"partial-toggle":     "partial_toggle",
	"notification-ttl":   "notification_ttl_seconds",
	"filter":             "default_filter",
	"log-dir":            "log_dir",
	"log-level":          "log_level",
	"log-format":         "log_format",
	"log-timestamps":     "log_timestamps",
	"log-caller":         "log_caller",
	"telemetry":          "telemetry.enabled",
	"telemetry-exporter": "telemetry.exporter",
	"telemetry-endpoint": "telemetry.endpoint",
}

// parseFlags binds the global flags to cfg, parses args and records which
// flags were set explicitly. Flag defaults are the values loaded so far, so
// an unset flag never clobbers a file or env value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Backend base URL")
	fs.IntVar(&cfg.TimeoutSeconds, "timeout", cfg.TimeoutSeconds, "Request timeout (seconds)")
	fs.IntVar(&cfg.ActionReloadDelayMS, "action-delay", cfg.ActionReloadDelayMS, "Delay before reloading after a chat action (ms)")
	fs.BoolVar(&cfg.PartialToggle, "partial-toggle", cfg.PartialToggle, "Send status-only bodies when toggling")
	fs.IntVar(&cfg.NotificationTTLSeconds, "notification-ttl", cfg.NotificationTTLSeconds, "Notification lifetime (seconds)")
	fs.StringVar(&cfg.DefaultFilter, "filter", cfg.DefaultFilter, "Initial filter: all, pending, completed, high")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json, logfmt")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")
	fs.BoolVar(&cfg.Telemetry.Enabled, "telemetry", cfg.Telemetry.Enabled, "Export traces and metrics")
	fs.StringVar(&cfg.Telemetry.Exporter, "telemetry-exporter", cfg.Telemetry.Exporter, "Telemetry exporter: stdout, otlp")
	fs.StringVar(&cfg.Telemetry.Endpoint, "telemetry-endpoint", cfg.Telemetry.Endpoint, "OTLP/HTTP endpoint")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok && sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}
