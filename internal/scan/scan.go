// Package scan locates the citation files in a source folder.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Errors.
var (
	ErrMixedTypes       = errors.New("mixed file types: only one file type (CSV or BibTeX) is allowed")
	ErrNoSupportedFiles = errors.New("no supported files found")
)

// Kind is the file type of a scanned folder.
type Kind int

const (
	KindCSV Kind = iota
	KindBibTeX
)

// String returns the label used when echoing configuration in summaries.
func (k Kind) String() string {
	if k == KindBibTeX {
		return "BibTeX"
	}
	return "CSV"
}

// Folder is the result of scanning a source folder: all supported files of
// one kind, in directory listing order.
type Folder struct {
	Path  string
	Kind  Kind
	Files []string // absolute paths
}

// Scan lists the folder and partitions regular files by extension.
// A folder holding both .csv and .bib files is rejected, as is one holding
// neither.
func Scan(dir string) (*Folder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var csvFiles, bibFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv":
			csvFiles = append(csvFiles, path)
		case ".bib":
			bibFiles = append(bibFiles, path)
		}
	}

	switch {
	case len(csvFiles) > 0 && len(bibFiles) > 0:
		return nil, ErrMixedTypes
	case len(csvFiles) > 0:
		return &Folder{Path: dir, Kind: KindCSV, Files: csvFiles}, nil
	case len(bibFiles) > 0:
		return &Folder{Path: dir, Kind: KindBibTeX, Files: bibFiles}, nil
	default:
		return nil, ErrNoSupportedFiles
	}
}
