package cli

import (
	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/passes"
)

func newPassesCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the registered optimization passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := passes.Names()
			if root.Format == "yaml" {
				out := NewOutputFormatter(cmd.OutOrStdout(), root.Format)
				return out.Print(map[string][]string{"passes": names})
			}
			out := NewOutputFormatter(cmd.OutOrStdout(), root.Format)
			for _, name := range names {
				out.Printf("%s\n", name)
			}
			return nil
		},
	}
}
