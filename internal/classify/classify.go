// Package classify assigns publication categories to citations, using the
// Crossref work type when a DOI is available and a free-text heuristic
// otherwise.
package classify

import (
	"context"
	"strconv"
	"strings"

	"github.com/refsift/refsift/internal/record"
)

// Category is the publication category assigned to a record.
type Category int

const (
	Unknown Category = iota
	OriginalResearch
	ConferencePaper
	Other
	NoDOI
)

// String returns the human-readable label used in summary reports.
func (c Category) String() string {
	switch c {
	case OriginalResearch:
		return "Original Research"
	case ConferencePaper:
		return "Conference Paper"
	case Other:
		return "Other"
	case NoDOI:
		return "No DOI"
	default:
		return "Unknown"
	}
}

// Included reports whether records of this category pass the filter.
func (c Category) Included() bool {
	return c == OriginalResearch || c == ConferencePaper
}

// MapWorkType maps a Crossref work type string to a category.
// The mapping is pure and total; unrecognized types map to Other.
func MapWorkType(workType string) Category {
	switch strings.ToLower(strings.TrimSpace(workType)) {
	case "journal-article", "article":
		return OriginalResearch
	case "proceedings-article", "conference-paper", "conference":
		return ConferencePaper
	default:
		return Other
	}
}

// FromFreeText classifies a free-text type field by substring match,
// case-insensitively. It returns Unknown when nothing matches.
func FromFreeText(typeField string) Category {
	s := strings.ToLower(typeField)
	switch {
	case strings.Contains(s, "journal"), strings.Contains(s, "article"):
		return OriginalResearch
	case strings.Contains(s, "conference"), strings.Contains(s, "proceeding"):
		return ConferencePaper
	default:
		return Unknown
	}
}

// TypeSource supplies an authoritative work type for a DOI. The Crossref
// client implements it; tests inject fakes.
type TypeSource interface {
	WorkType(ctx context.Context, doi string) (string, error)
}

// Classifier screens records by publication year and category.
type Classifier struct {
	// Source is consulted for records with a DOI. A nil Source disables
	// lookups entirely (offline mode); such records fall through to the
	// free-text heuristic.
	Source TypeSource

	// From and To bound the accepted publication years, inclusive.
	From int
	To   int
}

// Outcome is the terminal state of classifying one record.
type Outcome struct {
	// Category is meaningful only when InRange is true.
	Category Category
	// InRange is true when the year parsed and lies in [From, To].
	// Only in-range records contribute to the category breakdown.
	InRange bool
	// Retained is true when the record passes the filter.
	Retained bool
}

// Classify runs one record through the screening state machine. Lookup
// failures degrade to Unknown and never abort the batch.
func (c *Classifier) Classify(ctx context.Context, r record.Record) Outcome {
	year, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return Outcome{}
	}
	if year < c.From || year > c.To {
		return Outcome{}
	}

	hasDOI := strings.TrimSpace(r.DOI) != ""
	hasType := strings.TrimSpace(r.Type) != ""

	cat := Unknown
	if hasDOI && c.Source != nil {
		if workType, err := c.Source.WorkType(ctx, r.DOI); err == nil {
			cat = MapWorkType(workType)
		}
	}
	if cat == Unknown && hasType {
		if fallback := FromFreeText(r.Type); fallback != Unknown {
			cat = fallback
		}
	}
	if cat == Unknown && !hasDOI && !hasType {
		cat = NoDOI
	}

	return Outcome{
		Category: cat,
		InRange:  true,
		Retained: cat.Included(),
	}
}
