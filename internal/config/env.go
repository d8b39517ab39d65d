package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envBinding maps one environment variable to a config field.
type envBinding struct {
	keys  []string // first non-empty wins
	field string
	apply func(cfg *Config, v string) error
}

func envBindings() []envBinding {
	str := func(dst func(*Config) *string) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			*dst(cfg) = v
			return nil
		}
	}
	num := func(name string, dst func(*Config) *int) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: invalid integer %q", name, v)
			}
			*dst(cfg) = i
			return nil
		}
	}
	flag := func(dst func(*Config) *bool) func(*Config, string) error {
		return func(cfg *Config, v string) error {
			*dst(cfg) = boolFromString(v)
			return nil
		}
	}

	return []envBinding{
		{[]string{"TODOCTL_BASE_URL"}, "base_url", str(func(c *Config) *string { return &c.BaseURL })},
		{[]string{"TODOCTL_TIMEOUT"}, "timeout_seconds", num("TODOCTL_TIMEOUT", func(c *Config) *int { return &c.TimeoutSeconds })},
		{[]string{"TODOCTL_ACTION_DELAY_MS"}, "action_reload_delay_ms", num("TODOCTL_ACTION_DELAY_MS", func(c *Config) *int { return &c.ActionReloadDelayMS })},
		{[]string{"TODOCTL_PARTIAL_TOGGLE"}, "partial_toggle", flag(func(c *Config) *bool { return &c.PartialToggle })},
		{[]string{"TODOCTL_NOTIFICATION_TTL"}, "notification_ttl_seconds", num("TODOCTL_NOTIFICATION_TTL", func(c *Config) *int { return &c.NotificationTTLSeconds })},
		{[]string{"TODOCTL_DEFAULT_FILTER"}, "default_filter", str(func(c *Config) *string { return &c.DefaultFilter })},
		{[]string{"TODOCTL_LOG_DIR"}, "log_dir", str(func(c *Config) *string { return &c.LogDir })},
		{[]string{"TODOCTL_LOG_LEVEL"}, "log_level", str(func(c *Config) *string { return &c.LogLevel })},
		{[]string{"TODOCTL_LOG_FORMAT"}, "log_format", str(func(c *Config) *string { return &c.LogFormat })},
		{[]string{"TODOCTL_LOG_TIMESTAMPS"}, "log_timestamps", flag(func(c *Config) *bool { return &c.LogTimestamps })},
		{[]string{"TODOCTL_LOG_CALLER"}, "log_caller", flag(func(c *Config) *bool { return &c.LogCaller })},
		{[]string{"TODOCTL_TELEMETRY"}, "telemetry.enabled", flag(func(c *Config) *bool { return &c.Telemetry.Enabled })},
		{[]string{"TODOCTL_TELEMETRY_EXPORTER"}, "telemetry.exporter", str(func(c *Config) *string { return &c.Telemetry.Exporter })},
		{[]string{"TODOCTL_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"}, "telemetry.endpoint", str(func(c *Config) *string { return &c.Telemetry.Endpoint })},
		{[]string{"TODOCTL_SERVICE_NAME", "OTEL_SERVICE_NAME"}, "telemetry.service_name", str(func(c *Config) *string { return &c.Telemetry.ServiceName })},
	}
}

// loadDotEnv reads .env and then .env.<TODOCTL_ENV>, the latter overriding
// the former. Missing files are skipped. The process environment is not
// modified.
func loadDotEnv() (map[string]string, error) {
	values, err := readDotEnv(".env")
	if err != nil {
		return nil, err
	}

	envName := os.Getenv("TODOCTL_ENV")
	if envName == "" {
		envName = values["TODOCTL_ENV"]
	}
	if envName != "" {
		overlay, err := readDotEnv(".env." + envName)
		if err != nil {
			return nil, err
		}
		for k, v := range overlay {
			values[k] = v
		}
	}
	return values, nil
}

func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// loadFromEnv overrides config from the process environment, falling back
// to values read from .env files.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource, dotenv map[string]string) error {
	for _, b := range envBindings() {
		v, source := lookupEnv(b.keys, dotenv)
		if v == "" {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return err
		}
		sources[b.field] = source
	}
	return nil
}

func lookupEnv(keys []string, dotenv map[string]string) (string, ConfigSource) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v, SourceEnv
		}
	}
	for _, k := range keys {
		if v := dotenv[k]; v != "" {
			return v, SourceDotEnv
		}
	}
	return "", ""
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
