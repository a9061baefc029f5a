package main

import (
	"os"

	"github.com/chemsafe/chemsafe/internal/cli"
	"github.com/chemsafe/chemsafe/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the result to a process exit code. It is
// separate from main so tests can exercise it.
func run() int {
	cmd := cli.NewRootCmd(version.GetVersion())
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
