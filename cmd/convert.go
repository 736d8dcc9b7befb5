package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/gtasks2sp/internal/config"
	"github.com/nibzard/gtasks2sp/internal/convert"
	"github.com/nibzard/gtasks2sp/internal/gtasks"
	"github.com/nibzard/gtasks2sp/internal/logging"
	"github.com/nibzard/gtasks2sp/internal/sp"
	"github.com/nibzard/gtasks2sp/internal/ui"
)

// convertCommand converts a Takeout export and writes the backup.
func convertCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gtasks2sp convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("output", cfg.OutputFile, "Output file")
	fs.StringVar(output, "o", cfg.OutputFile, "Output file (shorthand)")
	validate := fs.Bool("validate", cfg.Validate, "Validate the converted backup before writing")
	dryRun := fs.Bool("dry-run", false, "Convert and validate without writing")
	verbose := fs.Bool("verbose", false, "Print per-project counts and debug logs")
	fs.BoolVar(verbose, "V", false, "Verbose (shorthand)")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(remaining) == 0 {
		return fmt.Errorf("missing input file")
	}
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	inputPath := remaining[0]

	logger := newLogger(cfg, *verbose)
	diag := logging.NewDiagnostics(logger)

	result, err := loadAndConvert(cfg, inputPath, diag)
	if err != nil {
		return err
	}
	backup := result.Backup

	if *validate {
		logger.Debug("validating backup")
		if err := checkBackup(backup, cfg.SchemaFile, logger); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if *verbose {
		printProjectCounts(backup)
	}

	if *dryRun {
		fmt.Fprintf(stdout, "Dry run: not writing %s\n", *output)
	} else {
		if err := backup.Save(*output); err != nil {
			return err
		}
		logger.Info("wrote backup", "path", *output)
	}

	fmt.Fprintf(stdout, "Converted %d task(s) in %d project(s)\n", backup.TaskCount(), backup.ProjectCount())
	if n := diag.Count(); n > 0 {
		fmt.Fprintf(stdout, "%d warning(s) during conversion\n", n)
	}
	return nil
}

// previewCommand converts in memory and opens the preview TUI.
func previewCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gtasks2sp preview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	remaining, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(remaining) != 1 {
		return fmt.Errorf("preview takes exactly one input file")
	}

	if !ui.IsTTY(stdout) {
		return fmt.Errorf("preview requires a TTY")
	}

	// Warnings are counted in the preview header instead of logged.
	diag := logging.NewDiagnostics(nil)
	result, err := loadAndConvert(cfg, remaining[0], diag)
	if err != nil {
		return err
	}
	return ui.RunPreview(ctx, result.Backup, ui.Summary{
		Source:   remaining[0],
		Warnings: diag.Count(),
	})
}

// loadAndConvert reads the export at path and converts it with the
// configured placeholder and colour.
func loadAndConvert(cfg *config.Config, path string, diag *logging.Diagnostics) (*convert.Result, error) {
	export, err := loadExport(path)
	if err != nil {
		return nil, err
	}

	converter := convert.New(convert.Options{
		PlaceholderTitle: cfg.PlaceholderTitle,
		ProjectColor:     cfg.ProjectColor,
		Diagnostics:      diag,
	})
	result, err := converter.Convert(export)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}
	return result, nil
}

func loadExport(path string) (*gtasks.Export, error) {
	export, err := gtasks.Load(path)
	switch {
	case err == nil:
		return export, nil
	case errors.Is(err, gtasks.ErrNotFound):
		return nil, fmt.Errorf("input file '%s' not found", path)
	default:
		return nil, err
	}
}

// checkBackup validates b and prints every error. schemaPath overrides the
// bundled schema when set.
func checkBackup(b *sp.Backup, schemaPath string, logger *log.Logger) error {
	result := b.Validate(sp.ValidationOptions{
		SchemaPath:        schemaPath,
		UseEmbeddedSchema: schemaPath == "",
	})
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if result.Valid {
		return nil
	}

	fmt.Fprintln(stderr, "Validation errors:")
	for _, msg := range result.Messages() {
		fmt.Fprintf(stderr, "  - %s\n", msg)
	}
	return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
}

func printProjectCounts(b *sp.Backup) {
	counts := make(map[string]int, b.ProjectCount())
	for _, task := range b.Data.Task.Entities {
		counts[task.ProjectID]++
	}
	for _, id := range b.Data.Project.IDs {
		project := b.Data.Project.Get(id)
		fmt.Fprintf(stdout, "  %s: %d task(s), %d top-level\n", project.Title, counts[id], len(project.TaskIDs))
	}
}
