package record

import "strings"

// KeyMode selects which fields make up a record's deduplication identity.
type KeyMode int

const (
	// FullKey compares title, author, publication, doi, and url together.
	FullKey KeyMode = iota
	// DOIOnly compares the normalized DOI alone.
	DOIOnly
)

// keySeparator joins key components so the joined string compares
// like a tuple of the normalized fields.
const keySeparator = "\x1f"

// Key returns the deduplication identity for a record under the given mode.
func Key(r Record, mode KeyMode) string {
	if mode == DOIOnly {
		return NormalizeText(r.DOI)
	}
	return strings.Join([]string{
		NormalizeText(r.Title),
		NormalizeText(r.Author),
		NormalizeText(r.Publication),
		NormalizeText(r.DOI),
		NormalizeText(r.URL),
	}, keySeparator)
}

// EmptyKey reports whether every component of the record's key under the
// given mode normalizes to "". All such records share one identity, so by
// default they collide with each other during deduplication.
func EmptyKey(r Record, mode KeyMode) bool {
	if mode == DOIOnly {
		return NormalizeText(r.DOI) == ""
	}
	return Key(r, mode) == strings.Repeat(keySeparator, 4)
}
