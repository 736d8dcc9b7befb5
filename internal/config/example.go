package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# gtasks2sp configuration file
# Values can be overridden by GTASKS2SP_* environment variables or CLI flags

# Where converted backups are written (supports ~ and $VAR expansion)
output_file = "super_productivity_import.json"

# JSON Schema used by --validate; leave empty to use the bundled schema
# schema_file = "~/schemas/sp-backup.schema.json"

# Title given to tasks and lists that have none
placeholder_title = "Untitled Task"

# Theme colour of created projects
project_color = "#4285f4"

# Always validate before writing
validate = false

# Logging
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
