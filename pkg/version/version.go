// Package version exposes build-time version metadata for the chemsafe CLI.
package version

import "fmt"

// Build-time variables, overridden via -ldflags at release time.
//
//nolint:gochecknoglobals // Set by the linker, read-only at runtime
var (
	// Version is the semantic version of the build.
	Version = "0.4.0"

	// Commit is the git commit the binary was built from.
	Commit = "dev"

	// Date is the build timestamp in RFC3339.
	Date = "unknown"
)

// GetVersion returns the semantic version string.
func GetVersion() string {
	return Version
}

// String returns a human-readable one-line version description.
func String() string {
	return fmt.Sprintf("chemsafe %s (commit %s, built %s)", Version, Commit, Date)
}
