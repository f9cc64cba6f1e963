// Package pipeline runs the deduplication and filter passes over a source
// folder and writes the output and summary files.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/refsift/refsift/internal/bibfile"
	"github.com/refsift/refsift/internal/csvfile"
	"github.com/refsift/refsift/internal/dedupe"
	"github.com/refsift/refsift/internal/record"
	"github.com/refsift/refsift/internal/report"
	"github.com/refsift/refsift/internal/scan"
)

// Output file names, written into the source folder.
const (
	DedupeOutputCSV = "deduplicated_output.csv"
	DedupeOutputBib = "deduplicated_output.bib"
	DedupeSummary   = "deduplication_summary.txt"
)

// DedupeOptions configure a dedup pass.
type DedupeOptions struct {
	Mode      record.KeyMode
	KeepEmpty bool
	DryRun    bool
}

// DedupeResult reports a completed dedup pass.
type DedupeResult struct {
	FileType    string `json:"file_type"`
	Folder      string `json:"folder"`
	Total       int    `json:"total"`
	Duplicates  int    `json:"duplicates"`
	Unique      int    `json:"unique"`
	DryRun      bool   `json:"dry_run"`
	OutputPath  string `json:"output_path,omitempty"`
	SummaryPath string `json:"summary_path,omitempty"`

	SummaryText string `json:"-"`
}

// Dedupe deduplicates all citation files in a folder. Unless DryRun is set
// it writes the deduplicated output and a summary file into the folder.
func Dedupe(dir string, opts DedupeOptions) (*DedupeResult, error) {
	folder, err := scan.Scan(dir)
	if err != nil {
		return nil, err
	}

	var dedupOpts []dedupe.Option
	if opts.KeepEmpty {
		dedupOpts = append(dedupOpts, dedupe.WithKeepEmpty())
	}
	d := dedupe.New(opts.Mode, dedupOpts...)

	var outputName string
	switch folder.Kind {
	case scan.KindCSV:
		outputName = DedupeOutputCSV
		err = dedupeCSV(folder, d, opts)
	case scan.KindBibTeX:
		outputName = DedupeOutputBib
		err = dedupeBib(folder, d, opts)
	}
	if err != nil {
		return nil, err
	}

	res := d.Finalize()
	summaryText := report.FormatDedupe(report.DedupeReport{
		FileType:   folder.Kind.String(),
		Folder:     folder.Path,
		FileOrder:  res.FileOrder,
		FileCounts: res.FileCounts,
		Total:      res.Total,
		Duplicates: res.Duplicates,
		Unique:     len(res.Unique),
		OutputFile: outputName,
	})

	result := &DedupeResult{
		FileType:    folder.Kind.String(),
		Folder:      folder.Path,
		Total:       res.Total,
		Duplicates:  res.Duplicates,
		Unique:      len(res.Unique),
		DryRun:      opts.DryRun,
		SummaryText: summaryText,
	}
	if opts.DryRun {
		return result, nil
	}

	result.OutputPath = filepath.Join(folder.Path, outputName)
	result.SummaryPath = filepath.Join(folder.Path, DedupeSummary)
	if err := os.WriteFile(result.SummaryPath, []byte(summaryText), 0644); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}
	return result, nil
}

// dedupeCSV ingests every CSV file and, unless dry-running, writes the
// retained rows under the first file's header.
func dedupeCSV(folder *scan.Folder, d *dedupe.Deduplicator, opts DedupeOptions) error {
	var header []string
	var kept []record.Record

	for _, path := range folder.Files {
		f, err := csvfile.Read(path)
		if err != nil {
			return err
		}
		if header == nil && len(f.Header) > 0 {
			header = f.Header
		}
		name := filepath.Base(path)
		for _, rec := range f.Records {
			if d.Ingest(name, rec) {
				kept = append(kept, rec)
			}
		}
	}

	if opts.DryRun {
		return nil
	}
	return csvfile.Write(filepath.Join(folder.Path, DedupeOutputCSV), header, kept)
}

// dedupeBib ingests every BibTeX file, deduplicating on the entry's fields
// while keeping whole entries for output.
func dedupeBib(folder *scan.Folder, d *dedupe.Deduplicator, opts DedupeOptions) error {
	var kept []bibfile.Entry

	for _, path := range folder.Files {
		entries, err := bibfile.ParseFile(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		for _, e := range entries {
			if d.Ingest(name, e.Record()) {
				kept = append(kept, e)
			}
		}
	}

	if opts.DryRun {
		return nil
	}
	return bibfile.WriteFile(filepath.Join(folder.Path, DedupeOutputBib), kept)
}
