package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/cache"
	"github.com/rydberg-labs/circopt/internal/harness"
	"github.com/rydberg-labs/circopt/internal/pipeline"
	"github.com/rydberg-labs/circopt/transform"
)

type runOptions struct {
	root         *RootOptions
	pipelinePath string
	cachePath    string
}

func newRunCommand(root *RootOptions) *cobra.Command {
	opts := &runOptions{root: root}

	cmd := &cobra.Command{
		Use:   "run CIRCUIT",
		Short: "Run an optimization pipeline over a circuit",
		Long: `Run compiles the CUE pipeline, applies it to the YAML circuit and
prints the optimized circuit. With --cache, results are memoized in a
SQLite database keyed by the pipeline and input content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.pipelinePath, "pipeline", "p", "", "CUE pipeline file (required)")
	cmd.Flags().StringVar(&opts.cachePath, "cache", "", "SQLite cache database path")
	cmd.MarkFlagRequired("pipeline")
	return cmd
}

func runRun(cmd *cobra.Command, opts *runOptions, circuitPath string) error {
	spec, err := pipeline.LoadFile(opts.pipelinePath)
	if err != nil {
		return NewExitError(ExitUsage, "invalid pipeline", err)
	}
	input, err := harness.LoadCircuit(circuitPath)
	if err != nil {
		return NewExitError(ExitUsage, "invalid circuit", err)
	}
	inputDoc, err := harness.MarshalCircuit(input)
	if err != nil {
		return NewExitError(ExitFailure, "encoding circuit", err)
	}

	out := NewOutputFormatter(cmd.OutOrStdout(), opts.root.Format)
	ctx := cmd.Context()

	var store *cache.Cache
	if opts.cachePath != "" {
		store, err = cache.Open(opts.cachePath)
		if err != nil {
			return NewExitError(ExitFailure, "opening cache", err)
		}
		defer store.Close()

		key := cache.Key(spec.Fingerprint(), string(inputDoc))
		if cached, hit, err := store.Get(ctx, key); err != nil {
			return NewExitError(ExitFailure, "reading cache", err)
		} else if hit {
			out.Printf("%s", cached)
			return nil
		}
	}

	seq, err := pipeline.Build(spec)
	if err != nil {
		return NewExitError(ExitUsage, "invalid pipeline", err)
	}
	result := input.Copy()
	if _, err := seq.Apply(result); err != nil {
		code := ExitFailure
		var pe *transform.PassError
		if errors.As(err, &pe) {
			code = ExitPassError
		}
		return NewExitError(code, "pipeline failed", err)
	}

	rendered, err := renderCircuit(result, opts.root.Format)
	if err != nil {
		return NewExitError(ExitFailure, "rendering result", err)
	}
	if store != nil {
		if _, err := store.Put(ctx, spec.Fingerprint(), string(inputDoc), rendered); err != nil {
			return NewExitError(ExitFailure, "writing cache", err)
		}
	}
	out.Printf("%s", rendered)
	return nil
}

func renderCircuit(c *circuit.Circuit, format string) (string, error) {
	if format == "yaml" {
		data, err := harness.MarshalCircuit(c)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return c.String(), nil
}
