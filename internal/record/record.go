// Package record defines the core domain types for bibliographic citations.
package record

import (
	"regexp"
	"strings"
)

// Field is one raw field from a source file, with its original name preserved.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record represents one bibliographic citation with normalized field access.
// The canonical fields are resolved once at ingestion; Fields keeps the raw
// columns (original names, original order) for writing output files.
type Record struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publication string `json:"publication"`
	DOI         string `json:"doi"`
	URL         string `json:"url"`
	Year        string `json:"year"`
	Type        string `json:"type"`

	Fields []Field `json:"fields,omitempty"`
}

// canonicalNames are the exact-match targets for column canonicalization.
// Raw names that clean to anything else stay unmapped.
var canonicalNames = map[string]bool{
	"title":       true,
	"author":      true,
	"publication": true,
	"doi":         true,
	"url":         true,
	"year":        true,
	"type":        true,
}

// CleanName prepares a raw column or field name for matching:
// lowercase, trim, and remove internal spaces.
func CleanName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "")
}

// CanonicalColumns maps canonical field names to the raw column names that
// resolve to them. Matching is exact on the cleaned name; there is no
// fuzzy matching. First raw column wins when two clean to the same name.
func CanonicalColumns(header []string) map[string]string {
	mapping := make(map[string]string)
	for _, raw := range header {
		cleaned := CleanName(raw)
		if canonicalNames[cleaned] {
			if _, ok := mapping[cleaned]; !ok {
				mapping[cleaned] = raw
			}
		}
	}
	return mapping
}

// FromFields builds a Record from raw fields. Canonical fields are filled by
// exact match on the cleaned name; year, doi, and type additionally fall back
// to substring matching so headers like "Publication Year" or "Item Type"
// still resolve.
func FromFields(fields []Field) Record {
	r := Record{Fields: fields}

	for _, f := range fields {
		switch CleanName(f.Name) {
		case "title":
			setIfEmpty(&r.Title, f.Value)
		case "author":
			setIfEmpty(&r.Author, f.Value)
		case "publication":
			setIfEmpty(&r.Publication, f.Value)
		case "doi":
			setIfEmpty(&r.DOI, f.Value)
		case "url":
			setIfEmpty(&r.URL, f.Value)
		case "year":
			setIfEmpty(&r.Year, f.Value)
		case "type":
			setIfEmpty(&r.Type, f.Value)
		}
	}

	// Looser second pass for the filter pipeline's columns.
	for _, f := range fields {
		cleaned := CleanName(f.Name)
		if r.Year == "" && strings.Contains(cleaned, "year") {
			r.Year = f.Value
		}
		if r.DOI == "" && strings.Contains(cleaned, "doi") {
			r.DOI = f.Value
		}
		if r.Type == "" && strings.Contains(cleaned, "type") {
			r.Type = f.Value
		}
	}

	return r
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// RawValue returns the value of the raw field with the given original name,
// or "" if the record has no such field.
func (r Record) RawValue(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// whitespaceRun matches any run of whitespace (space, tab, newline).
var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText lowercases, trims, and collapses whitespace runs to a single
// space. It is total and idempotent; empty or missing input yields "".
func NormalizeText(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// NormalizeDOI normalizes a DOI for comparison and API lookup.
// Removes common prefixes like "https://doi.org/" and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}
