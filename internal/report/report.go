// Package report accumulates per-file and aggregate statistics and renders
// the textual summary files.
package report

import (
	"sort"

	"github.com/refsift/refsift/internal/classify"
)

// FileStats are the per-source-file counters of the filter pipeline.
// Filtered + Ignored == Total always holds.
type FileStats struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Ignored  int `json:"ignored"`
}

// CategoryCount is one row of the classification breakdown.
type CategoryCount struct {
	Category classify.Category `json:"-"`
	Label    string            `json:"category"`
	Count    int               `json:"count"`
	Included bool              `json:"included"`
}

// FileSummary pairs a file name with its counters.
type FileSummary struct {
	Name  string    `json:"name"`
	Stats FileStats `json:"stats"`
}

// Summary is the immutable result of a filter run's aggregation.
type Summary struct {
	Files         []FileSummary   `json:"files"`
	TotalFound    int             `json:"total_found"`
	TotalIncluded int             `json:"total_included"`
	TotalExcluded int             `json:"total_excluded"`
	Breakdown     []CategoryCount `json:"breakdown"`
}

// Aggregator tallies statistics across all input files of a run. It is owned
// by one pipeline execution and reset simply by creating a new one; nothing
// persists across runs.
type Aggregator struct {
	files     []FileSummary
	catOrder  []classify.Category
	catCounts map[classify.Category]int

	totalFound    int
	totalFiltered int
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		catCounts: make(map[classify.Category]int),
	}
}

// AddFile records the counters of one processed file, in processing order.
func (a *Aggregator) AddFile(name string, stats FileStats) {
	a.files = append(a.files, FileSummary{Name: name, Stats: stats})
	a.totalFound += stats.Total
	a.totalFiltered += stats.Filtered
}

// Tally counts one classified record toward the category breakdown.
func (a *Aggregator) Tally(c classify.Category) {
	if _, ok := a.catCounts[c]; !ok {
		a.catOrder = append(a.catOrder, c)
	}
	a.catCounts[c]++
}

// Finalize produces the summary. The breakdown is sorted by descending
// count; ties keep first-encounter order, so identical input yields
// byte-identical reports.
func (a *Aggregator) Finalize() Summary {
	breakdown := make([]CategoryCount, 0, len(a.catOrder))
	for _, cat := range a.catOrder {
		breakdown = append(breakdown, CategoryCount{
			Category: cat,
			Label:    cat.String(),
			Count:    a.catCounts[cat],
			Included: cat.Included(),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	files := make([]FileSummary, len(a.files))
	copy(files, a.files)

	return Summary{
		Files:         files,
		TotalFound:    a.totalFound,
		TotalIncluded: a.totalFiltered,
		TotalExcluded: a.totalFound - a.totalFiltered,
		Breakdown:     breakdown,
	}
}
