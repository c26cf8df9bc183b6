package cli

import (
	"github.com/spf13/cobra"

	"github.com/rydberg-labs/circopt/internal/cache"
)

// cacheEntry is the cache ls command's result shape.
type cacheEntry struct {
	Key      string `yaml:"key"`
	Pipeline string `yaml:"pipeline"`
	Created  string `yaml:"created"`
}

func newCacheCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect a result cache database",
	}
	cmd.AddCommand(newCacheLsCommand(root))
	return cmd
}

func newCacheLsCommand(root *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ls DATABASE",
		Short: "List cached results, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(args[0])
			if err != nil {
				return NewExitError(ExitFailure, "opening cache", err)
			}
			defer store.Close()

			recs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return NewExitError(ExitFailure, "reading cache", err)
			}

			out := NewOutputFormatter(cmd.OutOrStdout(), root.Format)
			if root.Format == "yaml" {
				entries := make([]cacheEntry, len(recs))
				for i, r := range recs {
					entries[i] = cacheEntry{
						Key:      r.Key,
						Pipeline: r.Pipeline,
						Created:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
					}
				}
				return out.Print(entries)
			}
			for _, r := range recs {
				out.Printf("%s  %s  %s\n",
					r.Key[:12], r.CreatedAt.Format("2006-01-02T15:04:05Z"), r.Pipeline)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list (0 for all)")
	return cmd
}
