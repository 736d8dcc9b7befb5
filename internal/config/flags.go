package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args, and applies the
// flags that were explicitly set. If sources is non-nil, it tracks the
// source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(appName, flag.ContinueOnError)
	}

	// Bind to copies so unset flags never overwrite earlier layers.
	output := cfg.OutputFile
	schema := cfg.SchemaFile
	placeholder := cfg.PlaceholderTitle
	color := cfg.ProjectColor
	validate := cfg.Validate
	logLevel := cfg.LogLevel
	logFormat := cfg.LogFormat
	logTimestamps := cfg.LogTimestamps
	logCaller := cfg.LogCaller

	fs.StringVar(&output, "output", output, "Default output file")
	fs.StringVar(&schema, "schema", schema, "JSON Schema file for validation (default: bundled schema)")
	fs.StringVar(&placeholder, "placeholder", placeholder, "Title used for tasks and lists without one")
	fs.StringVar(&color, "project-color", color, "Theme colour for created projects")
	fs.BoolVar(&validate, "validate", validate, "Validate converted output before writing")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to config fields
	apply := map[string]struct {
		field string
		set   func()
	}{
		"output":         {"output_file", func() { cfg.OutputFile = output }},
		"schema":         {"schema_file", func() { cfg.SchemaFile = schema }},
		"placeholder":    {"placeholder_title", func() { cfg.PlaceholderTitle = placeholder }},
		"project-color":  {"project_color", func() { cfg.ProjectColor = color }},
		"validate":       {"validate", func() { cfg.Validate = validate }},
		"log-level":      {"log_level", func() { cfg.LogLevel = logLevel }},
		"log-format":     {"log_format", func() { cfg.LogFormat = logFormat }},
		"log-timestamps": {"log_timestamps", func() { cfg.LogTimestamps = logTimestamps }},
		"log-caller":     {"log_caller", func() { cfg.LogCaller = logCaller }},
	}

	fs.Visit(func(f *flag.Flag) {
		binding, ok := apply[f.Name]
		if !ok {
			return
		}
		binding.set()
		if sources != nil {
			sources[binding.field] = SourceFlag
		}
	})

	return nil
}
