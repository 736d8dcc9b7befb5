package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/nibzard/gtasks2sp/internal/config"
	"github.com/nibzard/gtasks2sp/internal/sp"
)

// validateCommand checks an existing backup file.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("gtasks2sp validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schema := fs.String("schema", cfg.SchemaFile, "JSON Schema file (default: bundled schema)")
	noSchema := fs.Bool("no-schema", false, "Run structural checks only")

	remaining, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if len(remaining) != 1 {
		return fmt.Errorf("validate takes exactly one backup file")
	}
	path := remaining[0]

	backup, err := sp.Load(path)
	if err != nil {
		return fmt.Errorf("loading backup: %w", err)
	}

	opts := sp.ValidationOptions{}
	if !*noSchema {
		opts.SchemaPath = *schema
		opts.UseEmbeddedSchema = *schema == ""
	}
	result := backup.Validate(opts)

	fmt.Fprintf(stdout, "Backup: %s\n", path)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintln(stdout, "  ❌ Validation failed:")
		for _, msg := range result.Messages() {
			fmt.Fprintf(stdout, "     - %s\n", msg)
		}
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}

	fmt.Fprintln(stdout, "  ✅ Valid")
	fmt.Fprintf(stdout, "  Projects: %d\n", backup.ProjectCount())
	fmt.Fprintf(stdout, "  Tasks: %d\n", backup.TaskCount())
	if result.UsedSchema {
		fmt.Fprintln(stdout, "  Schema: checked")
	}
	return nil
}
