package version

import "github.com/fatih/color"

// Build metadata for the quill CLI.
// These variables can be overridden at build time via -ldflags.

var (
	accent = color.New(color.FgCyan, color.Bold)

	// Version is the semantic version of the CLI.
	Version = accent.Sprint("0.1.0")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)
