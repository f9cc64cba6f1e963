// Package main provides the refsift CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refsift",
	Short: "Screen bibliographic reference collections",
	Long: `refsift processes folders of bibliographic references (CSV or BibTeX)
for systematic review workflows.

Core features:
  - Deduplicate references across files by canonical identity key
  - Filter references by publication year and type, classified via the
    Crossref works API with a free-text fallback
  - Look up a single DOI's publication type
  - Extract DOIs from PDF files

Each run writes its outputs and a plain-text summary into the source
folder. All commands output JSON by default for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
