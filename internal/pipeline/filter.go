package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/refsift/refsift/internal/bibfile"
	"github.com/refsift/refsift/internal/classify"
	"github.com/refsift/refsift/internal/csvfile"
	"github.com/refsift/refsift/internal/record"
	"github.com/refsift/refsift/internal/report"
	"github.com/refsift/refsift/internal/scan"
)

// Output file names of the filter pipeline.
const (
	FilterOutputCSV = "Included File.csv"
	FilterOutputBib = "Included File.bib"
	FilterSummary   = "Inclusion Summary.txt"
)

// publicationTypeField is stamped on retained BibTeX entries.
const publicationTypeField = "publication_type"

// FilterOptions configure a filter pass.
type FilterOptions struct {
	// From and To bound the accepted publication years, inclusive.
	From int
	To   int
	// Source classifies DOIs. Nil runs offline: only the free-text
	// heuristic is applied.
	Source classify.TypeSource
}

// FilterResult reports a completed filter pass.
type FilterResult struct {
	FileType    string         `json:"file_type"`
	Folder      string         `json:"folder"`
	Matched     int            `json:"matched"`
	Warnings    []string       `json:"warnings,omitempty"`
	Summary     report.Summary `json:"summary"`
	OutputPath  string         `json:"output_path,omitempty"`
	SummaryPath string         `json:"summary_path,omitempty"`

	SummaryText string `json:"-"`
}

// Filter screens all citation files in a folder by year window and
// publication category. When at least one record matches it writes the
// retained records and a summary file into the folder; when nothing matches
// it writes nothing and returns Matched == 0.
func Filter(ctx context.Context, dir string, opts FilterOptions) (*FilterResult, error) {
	folder, err := scan.Scan(dir)
	if err != nil {
		return nil, err
	}

	cls := &classify.Classifier{Source: opts.Source, From: opts.From, To: opts.To}
	agg := report.NewAggregator()

	result := &FilterResult{
		FileType: folder.Kind.String(),
		Folder:   folder.Path,
	}

	var outputName string
	var write func(path string) error
	switch folder.Kind {
	case scan.KindCSV:
		outputName = FilterOutputCSV
		write, err = filterCSV(ctx, folder, cls, agg, result)
	case scan.KindBibTeX:
		outputName = FilterOutputBib
		write, err = filterBib(ctx, folder, cls, agg, result)
	}
	if err != nil {
		return nil, err
	}

	result.Summary = agg.Finalize()
	result.SummaryText = report.FormatInclusion(report.InclusionConfig{
		FileType:   folder.Kind.String(),
		Folder:     folder.Path,
		FromYear:   opts.From,
		ToYear:     opts.To,
		OutputFile: outputName,
	}, result.Summary)

	if result.Matched == 0 {
		return result, nil
	}

	result.OutputPath = filepath.Join(folder.Path, outputName)
	if err := write(result.OutputPath); err != nil {
		return nil, err
	}
	result.SummaryPath = filepath.Join(folder.Path, FilterSummary)
	if err := os.WriteFile(result.SummaryPath, []byte(result.SummaryText), 0644); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}
	return result, nil
}

// filterCSV screens CSV rows. Files without a recognizable year column are
// skipped with a warning and excluded from the statistics.
func filterCSV(ctx context.Context, folder *scan.Folder, cls *classify.Classifier, agg *report.Aggregator, result *FilterResult) (func(string) error, error) {
	var header []string
	var kept []record.Record

	for _, path := range folder.Files {
		f, err := csvfile.Read(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		if !csvfile.HasYearColumn(f.Header) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no year column found in %s, file skipped", name))
			continue
		}
		if header == nil {
			header = f.Header
		}

		filtered := 0
		for _, rec := range f.Records {
			out := cls.Classify(ctx, rec)
			if out.InRange {
				agg.Tally(out.Category)
			}
			if out.Retained {
				kept = append(kept, rec)
				filtered++
			}
		}
		agg.AddFile(name, report.FileStats{
			Total:    len(f.Records),
			Filtered: filtered,
			Ignored:  len(f.Records) - filtered,
		})
	}

	result.Matched = len(kept)
	return func(path string) error {
		return csvfile.Write(path, header, kept)
	}, nil
}

// filterBib screens BibTeX entries and stamps the resolved category on the
// retained ones.
func filterBib(ctx context.Context, folder *scan.Folder, cls *classify.Classifier, agg *report.Aggregator, result *FilterResult) (func(string) error, error) {
	var kept []bibfile.Entry

	for _, path := range folder.Files {
		entries, err := bibfile.ParseFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)

		filtered := 0
		for _, e := range entries {
			out := cls.Classify(ctx, e.Record())
			if out.InRange {
				agg.Tally(out.Category)
			}
			if out.Retained {
				e.SetField(publicationTypeField, out.Category.String())
				kept = append(kept, e)
				filtered++
			}
		}
		agg.AddFile(name, report.FileStats{
			Total:    len(entries),
			Filtered: filtered,
			Ignored:  len(entries) - filtered,
		})
	}

	result.Matched = len(kept)
	return func(path string) error {
		return bibfile.WriteFile(path, kept)
	}, nil
}
