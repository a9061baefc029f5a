package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/pkg/version"
)

// newVersionCmd creates the version command, which prints the full build
// identity (version, commit, build date).
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
