package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/classify"
	"github.com/refsift/refsift/internal/config"
	"github.com/refsift/refsift/internal/crossref"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <doi>",
	Short: "Look up the publication type of a single DOI",
	Long: `Look up a DOI in the Crossref works API and report its work type and
the category refsift assigns to it.

Examples:
  refsift lookup 10.1038/nature12373
  refsift lookup https://doi.org/10.1093/sysbio/syy032`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

// LookupResult is the response for the lookup command.
type LookupResult struct {
	DOI      string `json:"doi"`
	WorkType string `json:"work_type"`
	Category string `json:"category"`
	Included bool   `json:"included"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitError, "loading config: %v", err)
	}

	opts := []crossref.ClientOption{crossref.WithInterval(cfg.Delay())}
	if mailto := cfg.Mailto(); mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}
	client := crossref.NewClient(opts...)

	workType, err := client.WorkType(context.Background(), args[0])
	if err != nil {
		exitWithError(ExitError, "looking up %s: %v", args[0], err)
	}

	category := classify.MapWorkType(workType)
	result := LookupResult{
		DOI:      args[0],
		WorkType: workType,
		Category: category.String(),
		Included: category.Included(),
	}

	if humanOutput {
		fmt.Printf("%s\n  Work type: %s\n  Category:  %s\n", result.DOI, result.WorkType, result.Category)
	} else {
		outputJSON(result)
	}
	return nil
}
