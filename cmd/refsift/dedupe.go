package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/pipeline"
	"github.com/refsift/refsift/internal/record"
	"github.com/refsift/refsift/internal/scan"
)

var (
	dedupeOnlyDOI   bool
	dedupeKeepEmpty bool
	dedupeDryRun    bool
)

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeOnlyDOI, "only-doi", false, "Deduplicate by DOI alone instead of the full identity key")
	dedupeCmd.Flags().BoolVar(&dedupeKeepEmpty, "keep-empty", false, "Treat records with an all-empty identity key as unique")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Report duplicates without writing any files")
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <folder>",
	Short: "Remove duplicate references across a folder of citation files",
	Long: `Remove duplicate references across all CSV or BibTeX files in a folder.

Two records are duplicates when their normalized title, author,
publication, doi, and url all match (or just the doi, with --only-doi).
The first-seen record wins. The deduplicated output and a summary are
written into the source folder.

Examples:
  refsift dedupe ./exports
  refsift dedupe ./exports --only-doi
  refsift dedupe ./exports --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	folder := mustFolder(args[0])

	mode := record.FullKey
	if dedupeOnlyDOI {
		mode = record.DOIOnly
	}

	result, err := pipeline.Dedupe(folder, pipeline.DedupeOptions{
		Mode:      mode,
		KeepEmpty: dedupeKeepEmpty,
		DryRun:    dedupeDryRun,
	})
	if err != nil {
		exitScanError(err)
	}

	if humanOutput {
		fmt.Print(result.SummaryText)
	} else {
		outputJSON(result)
	}
	return nil
}

// mustFolder validates the folder argument, exiting on failure.
func mustFolder(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		exitWithError(ExitInputError, "no folder selected: %s is not a directory", path)
	}
	return path
}

// exitScanError maps pipeline errors to exit codes and exits.
func exitScanError(err error) {
	code := ExitError
	if errors.Is(err, scan.ErrMixedTypes) || errors.Is(err, scan.ErrNoSupportedFiles) {
		code = ExitDataError
	}
	exitWithError(code, "%v", err)
}
