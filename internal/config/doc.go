// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.gtasks2sp/gtasks2sp.toml or OS-specific config directory)
// 3. Project config file (gtasks2sp.toml or .gtasks2sp.toml in the working directory)
// 4. Environment variables (GTASKS2SP_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.gtasks2sp/gtasks2sp.toml (preferred)
// - Windows: %APPDATA%\gtasks2sp\gtasks2sp.toml
// - macOS: ~/Library/Application Support/gtasks2sp/gtasks2sp.toml
// - Linux/BSD: $XDG_CONFIG_HOME/gtasks2sp/gtasks2sp.toml or ~/.config/gtasks2sp/gtasks2sp.toml
//
// Project-level config locations (overrides user config):
// - ./gtasks2sp.toml (preferred)
// - ./.gtasks2sp.toml
package config
