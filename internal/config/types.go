package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/gtasks2sp/internal/logging"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultOutputFile       = "super_productivity_import.json"
	DefaultPlaceholderTitle = "Untitled Task"
	DefaultProjectColor     = "#4285f4"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Config holds the full configuration for gtasks2sp.
type Config struct {
	// Paths
	OutputFile string `toml:"output_file"`
	SchemaFile string `toml:"schema_file"` // empty means the bundled schema

	// Conversion
	PlaceholderTitle string `toml:"placeholder_title"`
	ProjectColor     string `toml:"project_color"`

	// Validate the converted backup before writing it
	Validate bool `toml:"validate"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// LogOptions returns the logging options described by the config.
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.Timestamps = c.LogTimestamps
	opts.Caller = c.LogCaller
	return opts
}

// Check reports the first invalid setting.
func (c *Config) Check() error {
	if strings.TrimSpace(c.OutputFile) == "" {
		return fmt.Errorf("output_file must not be empty")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q: expected debug, info, warn, or error", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("log_format %q: expected text, json, or logfmt", c.LogFormat)
	}
	if !validColor(c.ProjectColor) {
		return fmt.Errorf("project_color %q: expected #rrggbb", c.ProjectColor)
	}
	return nil
}

// Value returns the string form of a field by its config-file name.
func (c *Config) Value(field string) string {
	switch field {
	case "output_file":
		return c.OutputFile
	case "schema_file":
		if c.SchemaFile == "" {
			return "(embedded)"
		}
		return c.SchemaFile
	case "placeholder_title":
		return c.PlaceholderTitle
	case "project_color":
		return c.ProjectColor
	case "validate":
		return strconv.FormatBool(c.Validate)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	}
	return ""
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}
