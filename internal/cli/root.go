// Package cli implements the circopt command line interface: compile a
// CUE pipeline, run it over a YAML circuit, and report the result.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/transform"
)

// RootOptions carries the global flags shared by every subcommand.
type RootOptions struct {
	// Verbose enables debug-level pass logging on stderr.
	Verbose bool

	// Format selects the output rendering: "text" or "yaml".
	Format string
}

// NewRootCommand builds the circopt root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "circopt",
		Short: "Quantum circuit optimizer",
		Long: `circopt rewrites quantum circuits through composable optimization
passes: peephole resynthesis, Clifford simplification, ZX-calculus
rewriting, phase-gadget merging and hardware gate-set synthesis.

Pipelines are described in CUE, circuits in YAML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "yaml" {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q (want text or yaml)", opts.Format), nil)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
				With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			transform.SetLogger(logger)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "text", "output format (text or yaml)")

	cmd.AddCommand(
		newRunCommand(opts),
		newValidateCommand(opts),
		newPassesCommand(opts),
		newStatsCommand(opts),
		newCacheCommand(opts),
	)
	return cmd
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		var ee *ExitError
		if AsExitError(err, &ee) {
			return ee.Code
		}
		return ExitFailure
	}
	return 0
}
