// Package csvfile reads and writes citation CSV files.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/refsift/refsift/internal/record"
)

// File is one parsed CSV file: the raw header plus one record per row.
type File struct {
	Path    string
	Header  []string
	Records []record.Record
}

// Read parses a CSV file into records. Short rows are padded so every record
// carries a value for every header column.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &File{Path: path}, nil
	}

	header := rows[0]
	out := &File{Path: path, Header: header}
	for _, row := range rows[1:] {
		fields := make([]record.Field, len(header))
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			fields[i] = record.Field{Name: name, Value: value}
		}
		out.Records = append(out.Records, record.FromFields(fields))
	}
	return out, nil
}

// HasYearColumn reports whether any header column resolves to a year field.
func HasYearColumn(header []string) bool {
	for _, name := range header {
		if strings.Contains(record.CleanName(name), "year") {
			return true
		}
	}
	return false
}

// Write writes records under the given header. Each cell is looked up by the
// raw column name, so records that came from a file with extra columns keep
// only the columns of this header.
func Write(path string, header []string, records []record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, name := range header {
			row[i] = rec.RawValue(name)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
