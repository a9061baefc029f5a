package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache command group. The subcommands operate on
// the file backend directly; for the Redis backend, stats and purge are
// handled by the server's own TTL eviction.
func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the scrape response cache",
	}
	cmd.AddCommand(newCacheStatsCmd(a), newCacheClearCmd(a), newCachePurgeCmd(a))
	return cmd
}

func newCacheStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and on-disk size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := a.newFileCache()
			if err != nil {
				return err
			}

			count, err := fs.Count()
			if err != nil {
				return err
			}
			size, err := fs.Size()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Directory: %s\n", fs.Dir())
			fmt.Fprintf(out, "Entries:   %d\n", count)
			fmt.Fprintf(out, "Size:      %.1f KiB\n", float64(size)/1024)
			fmt.Fprintf(out, "Max age:   %s\n", fs.MaxAge())
			return nil
		},
	}
}

func newCacheClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := a.newFileCache()
			if err != nil {
				return err
			}

			if err := fs.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	}
}

func newCachePurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove expired and unreadable cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := a.newFileCache()
			if err != nil {
				return err
			}

			removed := fs.ClearExpired(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entr%s.\n",
				removed, pluralYIes(removed))
			return nil
		},
	}
}

func pluralYIes(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
