package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/nibzard/gtasks2sp/internal/config"
)

// configCommand prints the effective configuration and where each value came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("gtasks2sp config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	if len(cws.Files) == 0 {
		fmt.Fprintln(stdout, "Config files: (none)")
	} else {
		fmt.Fprintln(stdout, "Config files:")
		active := cws.GetConfigFile()
		for _, f := range cws.Files {
			marker := ""
			if f == active {
				marker = " (highest priority)"
			}
			fmt.Fprintf(stdout, "  %s%s\n", f, marker)
		}
	}
	fmt.Fprintln(stdout)

	for _, field := range config.Fields() {
		fmt.Fprintf(stdout, "%-18s = %-32s (%s)\n", field, cws.Config.Value(field), cws.Sources[field])
	}
	return nil
}
