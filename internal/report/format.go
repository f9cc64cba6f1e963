package report

import (
	"fmt"
	"strings"
)

// DedupeReport carries everything the dedup summary file needs.
type DedupeReport struct {
	FileType   string
	Folder     string
	FileOrder  []string
	FileCounts map[string]int
	Total      int
	Duplicates int
	Unique     int
	OutputFile string
}

// FormatDedupe renders the deduplication summary. Output is stable for
// identical input: files appear in ingestion order.
func FormatDedupe(r DedupeReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "File Type: %s\n", r.FileType)
	fmt.Fprintf(&sb, "Folder: %s\n", r.Folder)
	sb.WriteString("\nCitations per file:\n")
	for _, name := range r.FileOrder {
		fmt.Fprintf(&sb, "  - %s: %d citations\n", name, r.FileCounts[name])
	}
	fmt.Fprintf(&sb, "\nTotal Bibliography Entries: %d\n", r.Total)
	fmt.Fprintf(&sb, "Duplicate Entries Removed: %d\n", r.Duplicates)
	fmt.Fprintf(&sb, "Unique Entries Saved: %d\n", r.Unique)
	fmt.Fprintf(&sb, "Output File: %s\n", r.OutputFile)

	return sb.String()
}

// InclusionConfig echoes the filter run's configuration into its summary.
type InclusionConfig struct {
	FileType   string
	Folder     string
	FromYear   int
	ToYear     int
	OutputFile string
}

// FormatInclusion renders the inclusion/exclusion summary for a filter run.
func FormatInclusion(cfg InclusionConfig, s Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "File Type: %s\n", cfg.FileType)
	fmt.Fprintf(&sb, "Folder: %s\n", cfg.Folder)
	fmt.Fprintf(&sb, "Filtering from %d to %d\n", cfg.FromYear, cfg.ToYear)
	sb.WriteString("Included only: Original Research and Conference Papers\n")

	sb.WriteString("\nFile-wise Reference Count:\n")
	for _, f := range s.Files {
		fmt.Fprintf(&sb, "  - %s:\n", f.Name)
		fmt.Fprintf(&sb, "      Total References:   %d\n", f.Stats.Total)
		fmt.Fprintf(&sb, "      Matched (Filtered): %d\n", f.Stats.Filtered)
		fmt.Fprintf(&sb, "      Ignored (Too Old/Wrong Type): %d\n", f.Stats.Ignored)
	}

	fmt.Fprintf(&sb, "\nTotal References Found:    %d\n", s.TotalFound)
	fmt.Fprintf(&sb, "Total References Included: %d\n", s.TotalIncluded)
	fmt.Fprintf(&sb, "Total References Excluded: %d\n", s.TotalExcluded)

	sb.WriteString("\nPublication Type Breakdown (Before Final Filtering):\n")
	for _, row := range s.Breakdown {
		verdict := "EXCLUDED"
		if row.Included {
			verdict = "INCLUDED"
		}
		fmt.Fprintf(&sb, "  - %s: %d [%s]\n", row.Label, row.Count, verdict)
	}

	fmt.Fprintf(&sb, "\nOutput File: %s\n", cfg.OutputFile)

	return sb.String()
}
