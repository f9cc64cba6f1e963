package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/refsift/refsift/internal/csvfile"
	"github.com/refsift/refsift/internal/record"
	"github.com/refsift/refsift/internal/scan"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// fakeSource maps DOIs to work types; unlisted DOIs fail like a transport error.
type fakeSource struct {
	types map[string]string
	calls int
}

func (f *fakeSource) WorkType(ctx context.Context, doi string) (string, error) {
	f.calls++
	if t, ok := f.types[record.NormalizeDOI(doi)]; ok {
		return t, nil
	}
	return "", errors.New("lookup failed")
}

func TestDedupeCSVEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file1.csv",
		"Title,Author,Publication,DOI,URL,Year\n"+
			"A,Smith,J,10.1/x,,2021\n"+
			"A,Smith,J,10.1/x,,2021\n")
	writeFile(t, dir, "file2.csv",
		"Title,Author,Publication,DOI,URL,Year\n"+
			"B,Jones,J,10.2/y,,2022\n")

	res, err := Dedupe(dir, DedupeOptions{Mode: record.FullKey})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}

	if res.Total != 3 {
		t.Errorf("Total = %d, want 3", res.Total)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	if res.Unique != 2 {
		t.Errorf("Unique = %d, want 2", res.Unique)
	}

	out, err := csvfile.Read(filepath.Join(dir, DedupeOutputCSV))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(out.Records) != 2 {
		t.Errorf("output has %d rows, want 2", len(out.Records))
	}

	summary, err := os.ReadFile(filepath.Join(dir, DedupeSummary))
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	for _, fragment := range []string{
		"File Type: CSV",
		"file1.csv: 2 citations",
		"file2.csv: 1 citations",
		"Total Bibliography Entries: 3",
		"Duplicate Entries Removed: 1",
		"Unique Entries Saved: 2",
	} {
		if !strings.Contains(string(summary), fragment) {
			t.Errorf("summary missing %q", fragment)
		}
	}
}

func TestDedupeDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Title,Author,Publication,DOI,URL\nA,S,J,1,u\nA,S,J,1,u\n")

	res, err := Dedupe(dir, DedupeOptions{Mode: record.FullKey, DryRun: true})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d", res.Duplicates)
	}
	if _, err := os.Stat(filepath.Join(dir, DedupeOutputCSV)); !os.IsNotExist(err) {
		t.Error("dry run must not write the output file")
	}
	if _, err := os.Stat(filepath.Join(dir, DedupeSummary)); !os.IsNotExist(err) {
		t.Error("dry run must not write the summary file")
	}
}

func TestDedupeBib(t *testing.T) {
	dir := t.TempDir()
	bib := `@article{a1,
  title = {Same Paper},
  author = {Smith, J.},
  doi = {10.1/x},
}

@article{a2,
  title = {Same  PAPER},
  author = {smith, j.},
  doi = {10.1/x},
}

@article{b1,
  title = {Different},
  author = {Jones, K.},
  doi = {10.2/y},
}
`
	writeFile(t, dir, "refs.bib", bib)

	res, err := Dedupe(dir, DedupeOptions{Mode: record.FullKey})
	if err != nil {
		t.Fatalf("Dedupe: %v", err)
	}
	if res.FileType != "BibTeX" {
		t.Errorf("FileType = %s", res.FileType)
	}
	if res.Unique != 2 || res.Duplicates != 1 {
		t.Errorf("unique=%d duplicates=%d, want 2/1", res.Unique, res.Duplicates)
	}

	data, err := os.ReadFile(filepath.Join(dir, DedupeOutputBib))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "@article{a1,") || strings.Contains(string(data), "@article{a2,") {
		t.Errorf("output should keep the first-seen entry only:\n%s", data)
	}
}

func TestDedupeMixedFolder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Title\nx\n")
	writeFile(t, dir, "b.bib", "@misc{k,}")

	if _, err := Dedupe(dir, DedupeOptions{}); !errors.Is(err, scan.ErrMixedTypes) {
		t.Errorf("err = %v, want ErrMixedTypes", err)
	}
}

func TestFilterCSVEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.csv",
		"Title,Author,Year,DOI,Type\n"+
			"Keep Journal,A,2021,10.1/journal,\n"+
			"Keep Fallback,B,2022,,Conference Proceedings 2022\n"+
			"Drop Old,C,2019,10.1/journal,\n"+
			"Drop Chapter,D,2021,10.1/chapter,\n"+
			"Drop NoSignal,E,2021,,\n"+
			"Drop BadYear,F,n.d.,10.1/journal,\n")

	src := &fakeSource{types: map[string]string{
		"10.1/journal": "journal-article",
		"10.1/chapter": "book-chapter",
	}}

	res, err := Filter(context.Background(), dir, FilterOptions{From: 2020, To: 2024, Source: src})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	if res.Matched != 2 {
		t.Fatalf("Matched = %d, want 2", res.Matched)
	}
	// Out-of-range and unparseable years never reach the oracle.
	if src.calls != 2 {
		t.Errorf("oracle calls = %d, want 2 (journal + chapter)", src.calls)
	}

	out, err := csvfile.Read(filepath.Join(dir, FilterOutputCSV))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(out.Records) != 2 {
		t.Fatalf("output rows = %d, want 2", len(out.Records))
	}
	if out.Records[0].Title != "Keep Journal" || out.Records[1].Title != "Keep Fallback" {
		t.Errorf("retained rows = %q, %q", out.Records[0].Title, out.Records[1].Title)
	}

	stats := res.Summary.Files[0].Stats
	if stats.Total != 6 || stats.Filtered != 2 || stats.Ignored != 4 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Filtered+stats.Ignored != stats.Total {
		t.Error("per-file invariant violated")
	}

	// Breakdown: journal + fallback conference included; chapter Other and
	// empty record NoDOI excluded. Year rejects are not tallied.
	counts := map[string]int{}
	for _, row := range res.Summary.Breakdown {
		counts[row.Label] = row.Count
	}
	want := map[string]int{"Original Research": 1, "Conference Paper": 1, "Other": 1, "No DOI": 1}
	for label, n := range want {
		if counts[label] != n {
			t.Errorf("breakdown[%s] = %d, want %d", label, counts[label], n)
		}
	}

	summary, err := os.ReadFile(filepath.Join(dir, FilterSummary))
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	if !strings.Contains(string(summary), "Filtering from 2020 to 2024") {
		t.Error("summary missing year range")
	}
}

func TestFilterBibStampsPublicationType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.bib", `@article{keep,
  title = {Kept},
  year = {2021},
  doi = {10.1/journal},
}

@misc{drop,
  title = {Dropped},
  year = {2021},
}
`)

	src := &fakeSource{types: map[string]string{"10.1/journal": "journal-article"}}
	res, err := Filter(context.Background(), dir, FilterOptions{From: 2020, To: 2024, Source: src})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Matched != 1 {
		t.Fatalf("Matched = %d, want 1", res.Matched)
	}

	data, err := os.ReadFile(filepath.Join(dir, FilterOutputBib))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "publication_type = {Original Research}") {
		t.Errorf("retained entry should carry publication_type:\n%s", data)
	}
	if strings.Contains(string(data), "@misc{drop,") {
		t.Error("excluded entry leaked into output")
	}
}

func TestFilterNoMatchesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.csv", "Title,Year\nOld,1990\n")

	res, err := Filter(context.Background(), dir, FilterOptions{From: 2020, To: 2024})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Matched != 0 {
		t.Errorf("Matched = %d, want 0", res.Matched)
	}
	if _, err := os.Stat(filepath.Join(dir, FilterOutputCSV)); !os.IsNotExist(err) {
		t.Error("no-match run must not write an output file")
	}
	if _, err := os.Stat(filepath.Join(dir, FilterSummary)); !os.IsNotExist(err) {
		t.Error("no-match run must not write a summary file")
	}
}

func TestFilterSkipsFileWithoutYearColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Title,Author\nNo Year,Smith\n")
	writeFile(t, dir, "b.csv", "Title,Year,Type\nGood,2021,journal\n")

	res, err := Filter(context.Background(), dir, FilterOptions{From: 2020, To: 2024})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "a.csv") {
		t.Errorf("Warnings = %v, want one mentioning a.csv", res.Warnings)
	}
	if res.Matched != 1 {
		t.Errorf("Matched = %d, want 1 (processing continues after skip)", res.Matched)
	}
	if len(res.Summary.Files) != 1 || res.Summary.Files[0].Name != "b.csv" {
		t.Errorf("skipped file must not appear in stats: %+v", res.Summary.Files)
	}
}

func TestFilterOffline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.csv",
		"Title,Year,DOI,Type\n"+
			"Heuristic,2021,10.1/x,Journal Article\n")

	res, err := Filter(context.Background(), dir, FilterOptions{From: 2020, To: 2024, Source: nil})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Matched != 1 {
		t.Errorf("Matched = %d, want 1 via heuristic with no oracle", res.Matched)
	}
}
