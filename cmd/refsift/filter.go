package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/classify"
	"github.com/refsift/refsift/internal/config"
	"github.com/refsift/refsift/internal/crossref"
	"github.com/refsift/refsift/internal/lookupcache"
	"github.com/refsift/refsift/internal/pipeline"
)

var (
	filterFrom    int
	filterTo      int
	filterOffline bool
	filterNoCache bool
	filterDelay   time.Duration
)

func init() {
	filterCmd.Flags().IntVar(&filterFrom, "from", 0, "Starting publication year (inclusive)")
	filterCmd.Flags().IntVar(&filterTo, "to", 0, "Ending publication year (inclusive, defaults to the current year)")
	filterCmd.Flags().BoolVar(&filterOffline, "offline", false, "Skip Crossref lookups, classify from the type field only")
	filterCmd.Flags().BoolVar(&filterNoCache, "no-cache", false, "Bypass the DOI lookup cache")
	filterCmd.Flags().DurationVar(&filterDelay, "delay", 0, "Politeness interval between Crossref lookups (default 500ms)")
	filterCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(filterCmd)
}

var filterCmd = &cobra.Command{
	Use:   "filter <folder>",
	Short: "Filter references by publication year and type",
	Long: `Filter references in a folder of CSV or BibTeX files, keeping only
original research and conference papers published within the year range.

Publication types come from the Crossref works API when a record has a
DOI; otherwise (or when the lookup fails) a free-text type field is
consulted. Crossref lookups are throttled by default and cached across
runs. The retained records and a summary are written into the source
folder.

Examples:
  refsift filter ./exports --from 2020
  refsift filter ./exports --from 2018 --to 2023
  refsift filter ./exports --from 2020 --offline`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	folder := mustFolder(args[0])

	if filterTo == 0 {
		filterTo = time.Now().Year()
	}
	if filterFrom <= 0 {
		exitWithError(ExitInputError, "invalid year input: %d", filterFrom)
	}
	if filterFrom > filterTo {
		exitWithError(ExitInputError, "starting year %d is after ending year %d", filterFrom, filterTo)
	}

	source, cleanup := buildTypeSource()
	defer cleanup()

	result, err := pipeline.Filter(context.Background(), folder, pipeline.FilterOptions{
		From:   filterFrom,
		To:     filterTo,
		Source: source,
	})
	if err != nil {
		exitScanError(err)
	}

	for _, w := range result.Warnings {
		warn("%s", w)
	}
	if result.Matched == 0 {
		exitWithError(ExitError, "no references matched your filters")
	}

	if humanOutput {
		fmt.Print(result.SummaryText)
	} else {
		outputJSON(result)
	}
	return nil
}

// buildTypeSource assembles the classification oracle: the Crossref client,
// wrapped in the lookup cache unless disabled. Returns a nil source in
// offline mode.
func buildTypeSource() (classify.TypeSource, func()) {
	if filterOffline {
		return nil, func() {}
	}

	cfg, err := config.LoadGlobal()
	if err != nil {
		exitWithError(ExitError, "loading config: %v", err)
	}

	opts := []crossref.ClientOption{crossref.WithInterval(cfg.Delay())}
	if filterDelay > 0 {
		opts = []crossref.ClientOption{crossref.WithInterval(filterDelay)}
	}
	if mailto := cfg.Mailto(); mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}

	var source classify.TypeSource = crossref.NewClient(opts...)
	if filterNoCache {
		return source, func() {}
	}

	cachePath := cfg.CacheDBPath()
	if cachePath == "" {
		return source, func() {}
	}
	cache, err := lookupcache.Open(cachePath)
	if err != nil {
		// A broken cache degrades to direct lookups.
		warn("opening lookup cache: %v", err)
		return source, func() {}
	}
	return &lookupcache.Source{Cache: cache, Next: source}, func() { cache.Close() }
}
