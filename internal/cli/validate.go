package cli

import (
	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/internal/pipeline"
)

func newValidateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PIPELINE",
		Short: "Check a CUE pipeline without running it",
		Long: `Validate compiles the pipeline and checks every pass name and
argument against the pass registry. A valid pipeline prints nothing and
exits zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := pipeline.LoadFile(args[0])
			if err != nil {
				return NewExitError(ExitUsage, "invalid pipeline", err)
			}
			if err := pipeline.Validate(spec); err != nil {
				return NewExitError(ExitUsage, "invalid pipeline", err)
			}
			out := NewOutputFormatter(cmd.OutOrStdout(), root.Format)
			out.Printf("pipeline %s: %d pass(es) ok\n", spec.Name, len(spec.Passes))
			return nil
		},
	}
}
