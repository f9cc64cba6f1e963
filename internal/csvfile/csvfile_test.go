package csvfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead(t *testing.T) {
	path := writeTemp(t, "refs.csv",
		"Title,Author,Publication Year,DOI,Notes\n"+
			"A Study,Smith,2021,10.1/x,interesting\n"+
			"Short Row,Jones\n")

	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(f.Records))
	}

	first := f.Records[0]
	if first.Title != "A Study" || first.Year != "2021" || first.DOI != "10.1/x" {
		t.Errorf("first record = %+v", first)
	}
	if first.RawValue("Notes") != "interesting" {
		t.Errorf("Notes = %q", first.RawValue("Notes"))
	}

	// Ragged rows are padded with empty values.
	second := f.Records[1]
	if second.Title != "Short Row" || second.Year != "" {
		t.Errorf("second record = %+v", second)
	}
	if len(second.Fields) != len(f.Header) {
		t.Errorf("short row has %d fields, want %d", len(second.Fields), len(f.Header))
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.csv", "")
	f, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Records) != 0 || len(f.Header) != 0 {
		t.Errorf("empty file produced header=%v records=%d", f.Header, len(f.Records))
	}
}

func TestHasYearColumn(t *testing.T) {
	tests := []struct {
		header []string
		want   bool
	}{
		{[]string{"Title", "Year"}, true},
		{[]string{"Title", "Publication Year"}, true},
		{[]string{"Title", "YEAR PUBLISHED"}, true},
		{[]string{"Title", "Author"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasYearColumn(tt.header); got != tt.want {
			t.Errorf("HasYearColumn(%v) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	src := writeTemp(t, "in.csv",
		"Title,Author,Year\n"+
			"One,A,2020\n"+
			"Two,B,2021\n")

	f, err := Read(src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	if err := Write(out, f.Header, f.Records); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back, err := Read(out)
	if err != nil {
		t.Fatalf("Read written file: %v", err)
	}
	if len(back.Records) != 2 {
		t.Fatalf("round trip lost rows: %d", len(back.Records))
	}
	if back.Records[1].Title != "Two" || back.Records[1].Year != "2021" {
		t.Errorf("round-tripped record = %+v", back.Records[1])
	}
}
