// Package logging configures charmbracelet/log loggers and collects
// non-fatal conversion diagnostics.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Options holds configuration for a console logger.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // text, json, logfmt
	Timestamps bool
	Caller     bool
	Prefix     string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:  "info",
		Format: "text",
		Prefix: "gtasks2sp",
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
// Unknown values fall back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ValidFormat reports whether format names a known formatter.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}

// Warning is a recorded non-fatal diagnostic.
type Warning struct {
	Message string
	Fields  []any // alternating key/value pairs
}

// String renders the warning as "message key=value ...".
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Message)
	for i := 0; i+1 < len(w.Fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", w.Fields[i], w.Fields[i+1])
	}
	return b.String()
}

// Diagnostics records recoverable problems found while converting and
// forwards each one to a logger at warn level.
type Diagnostics struct {
	mu       sync.Mutex
	logger   *log.Logger
	warnings []Warning
}

// NewDiagnostics returns a collector that logs to logger.
// A nil logger only records.
func NewDiagnostics(logger *log.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Warn records a diagnostic with optional key/value fields.
func (d *Diagnostics) Warn(msg string, keyvals ...any) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.warnings = append(d.warnings, Warning{Message: msg, Fields: keyvals})
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.Warn(msg, keyvals...)
	}
}

// Debug forwards a debug message without recording it.
func (d *Diagnostics) Debug(msg string, keyvals ...any) {
	if d == nil || d.logger == nil {
		return
	}
	d.logger.Debug(msg, keyvals...)
}

// Warnings returns a copy of the recorded diagnostics.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Count returns the number of recorded diagnostics.
func (d *Diagnostics) Count() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
