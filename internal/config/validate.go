package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/nibzard/todoctl/internal/todo"
)

// Validate reports every invalid field in cfg.
func Validate(cfg *Config) error {
	var errs []error

	if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url: %q is not an http(s) URL", cfg.BaseURL))
	}
	if cfg.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds: must not be negative"))
	}
	if cfg.ActionReloadDelayMS < 0 {
		errs = append(errs, fmt.Errorf("action_reload_delay_ms: must not be negative"))
	}
	if cfg.NotificationTTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("notification_ttl_seconds: must not be negative"))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown format %q", cfg.LogFormat))
	}
	if _, err := todo.ParseFilter(cfg.DefaultFilter); err != nil {
		errs = append(errs, fmt.Errorf("default_filter: %w", err))
	}
	switch cfg.Telemetry.Exporter {
	case "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter: unknown exporter %q", cfg.Telemetry.Exporter))
	}

	return errors.Join(errs...)
}
