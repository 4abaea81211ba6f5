package main

import (
	"github.com/spf13/cobra"

	"untangle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "untangle",
	Short: "untangle - multi-language dependency graph analyzer",
	Long: `untangle analyzes module-level dependency structure across
Go, Python, Ruby and Rust source trees: it discovers source files,
extracts import relationships, builds a dependency graph, computes
fan-in/out, strongly connected components, and entropy, and surfaces
actionable architectural insights. A diff mode compares two revisions
to gate pull requests via policy rules.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("untangle version {{.Version}}\n")
}
