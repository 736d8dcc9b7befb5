package config

import (
	"os"
	"strings"
)

const envPrefix = "GTASKS2SP_"

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	track := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = v
			track(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = boolFromString(v)
			track(field)
		}
	}

	str("OUTPUT", "output_file", &cfg.OutputFile)
	str("SCHEMA", "schema_file", &cfg.SchemaFile)
	str("PLACEHOLDER_TITLE", "placeholder_title", &cfg.PlaceholderTitle)
	str("PROJECT_COLOR", "project_color", &cfg.ProjectColor)
	boolean("VALIDATE", "validate", &cfg.Validate)

	// Logging configuration
	str("LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("LOG_CALLER", "log_caller", &cfg.LogCaller)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
