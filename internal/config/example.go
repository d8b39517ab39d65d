package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todoctl configuration file
# Values can be overridden by .env files, TODOCTL_* environment variables or CLI flags

# Task backend
base_url = "http://localhost:5004"

# Per-request timeout (seconds, 0 disables)
timeout_seconds = 10

# Pause before reloading the list after the assistant performs an action (ms)
action_reload_delay_ms = 500

# Send {"status": ...} instead of the whole record when toggling a task
partial_toggle = false

# How long notifications stay visible (seconds)
notification_ttl_seconds = 5

# Initial filter: all, pending, completed, high
default_filter = "all"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.todoctl/logs"

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false

[telemetry]
enabled = false
# stdout or otlp
exporter = "stdout"
# endpoint = "localhost:4318"
service_name = "todoctl"
`
}
