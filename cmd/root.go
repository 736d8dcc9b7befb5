// Package cmd implements the CLI command structure for gtasks2sp.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/gtasks2sp/internal/config"
	"github.com/nibzard/gtasks2sp/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the gtasks2sp CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("gtasks2sp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stderr)
		return fmt.Errorf("missing input file")
	}

	// Determine the subcommand
	// If the first arg is a flag, use "convert" as default
	subcommand := "convert"
	if !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	// Execute the subcommand
	switch subcommand {
	case "convert":
		return convertCommand(ctx, cfg, remainingArgs)
	case "preview":
		return previewCommand(ctx, cfg, remainingArgs)
	case "validate":
		return validateCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, stdout)
		return nil
	default:
		// A bare file path is the input for convert, so a missing export
		// is reported as such rather than as an unknown command.
		if looksLikeInput(subcommand) {
			return convertCommand(ctx, cfg, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// looksLikeInput reports whether arg names an existing file or has the
// shape of a path (a .json extension or a directory separator).
func looksLikeInput(arg string) bool {
	if fi, err := os.Stat(arg); err == nil {
		return !fi.IsDir()
	}
	return strings.EqualFold(filepath.Ext(arg), ".json") || strings.ContainsAny(arg, `/\`)
}

// newLogger builds the command logger from config. Verbose forces debug.
func newLogger(cfg *config.Config, verbose bool) *log.Logger {
	opts := cfg.LogOptions()
	if verbose {
		opts.Level = "debug"
	}
	return logging.New(stderr, opts)
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		// Everything after "--" is positional.
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func versionCommand() error {
	fmt.Fprintf(stdout, "gtasks2sp version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "gtasks2sp - Convert Google Tasks exports into Super Productivity backups")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gtasks2sp [global options] [command] [options] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert <input>     Convert a Google Tasks export (default command)")
	fmt.Fprintln(w, "  preview <input>     Convert in memory and browse the result")
	fmt.Fprintln(w, "  validate <backup>   Check an existing Super Productivity backup")
	fmt.Fprintln(w, "  config              Show the effective configuration")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Options (use with 'convert' command):")
	fmt.Fprintln(w, "  -o, -output string")
	fmt.Fprintf(w, "        Output file (default %q)\n", config.DefaultOutputFile)
	fmt.Fprintln(w, "  -validate")
	fmt.Fprintln(w, "        Validate the converted backup before writing")
	fmt.Fprintln(w, "  -dry-run")
	fmt.Fprintln(w, "        Convert and validate without writing")
	fmt.Fprintln(w, "  -V, -verbose")
	fmt.Fprintln(w, "        Print per-project counts and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate Options (use with 'validate' command):")
	fmt.Fprintln(w, "  -schema string")
	fmt.Fprintln(w, "        JSON Schema file (default: bundled schema)")
	fmt.Fprintln(w, "  -no-schema")
	fmt.Fprintln(w, "        Run structural checks only")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example configuration file")
}
