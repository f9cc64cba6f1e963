// Package dedupe removes duplicate citations by canonical identity key.
package dedupe

import (
	"github.com/refsift/refsift/internal/record"
)

// Deduplicator collapses a sequence of records to the first-seen record per
// identity key. It owns the only retained state of the dedup pass; callers
// feed records in input-file order and read everything back via Finalize.
type Deduplicator struct {
	mode      record.KeyMode
	keepEmpty bool

	seen  map[string]record.Record
	order []string // keys in first-seen order

	// Records with all-empty keys, kept aside when keepEmpty is set.
	empties []record.Record

	duplicates int
	total      int

	fileOrder  []string
	fileCounts map[string]int
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithKeepEmpty treats records whose key is entirely empty as always unique.
// By default all such records share the empty key and collide with each
// other, matching the historical key model.
func WithKeepEmpty() Option {
	return func(d *Deduplicator) {
		d.keepEmpty = true
	}
}

// New creates a Deduplicator using the given key mode.
func New(mode record.KeyMode, opts ...Option) *Deduplicator {
	d := &Deduplicator{
		mode:       mode,
		seen:       make(map[string]record.Record),
		fileCounts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ingest feeds one record from the named source file. It returns true when
// the record is the first seen for its key (and therefore retained), false
// when it is counted as a duplicate and discarded.
func (d *Deduplicator) Ingest(file string, r record.Record) bool {
	d.total++
	if _, ok := d.fileCounts[file]; !ok {
		d.fileOrder = append(d.fileOrder, file)
	}
	d.fileCounts[file]++

	if d.keepEmpty && record.EmptyKey(r, d.mode) {
		d.empties = append(d.empties, r)
		return true
	}

	key := record.Key(r, d.mode)
	if _, ok := d.seen[key]; ok {
		d.duplicates++
		return false
	}
	d.seen[key] = r
	d.order = append(d.order, key)
	return true
}

// Result is the outcome of a dedup pass.
type Result struct {
	// Unique holds the retained records in first-seen order. Empty-key
	// records kept via WithKeepEmpty follow the keyed records, also in
	// ingestion order.
	Unique     []record.Record
	Duplicates int
	Total      int
	FileOrder  []string
	FileCounts map[string]int
}

// Finalize returns the retained records and counters.
func (d *Deduplicator) Finalize() Result {
	unique := make([]record.Record, 0, len(d.order)+len(d.empties))
	for _, key := range d.order {
		unique = append(unique, d.seen[key])
	}
	unique = append(unique, d.empties...)

	return Result{
		Unique:     unique,
		Duplicates: d.duplicates,
		Total:      d.total,
		FileOrder:  d.fileOrder,
		FileCounts: d.fileCounts,
	}
}
