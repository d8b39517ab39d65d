// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.todoctl/todoctl.toml or OS-specific config directory)
// 3. Project config file (todoctl.toml or .todoctl.toml in the working directory,
//    or the file named by TODOCTL_CONFIG)
// 4. .env files (.env, then .env.<TODOCTL_ENV> overriding it)
// 5. Environment variables (TODOCTL_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.todoctl/todoctl.toml (preferred)
// - Windows: %APPDATA%\todoctl\todoctl.toml
// - macOS: ~/Library/Application Support/todoctl/todoctl.toml
// - Linux/BSD: $XDG_CONFIG_HOME/todoctl/todoctl.toml or ~/.config/todoctl/todoctl.toml
package config
