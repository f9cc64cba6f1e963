package lookupcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "worktypes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)

	if _, ok, err := c.Get("10.1/x"); err != nil || ok {
		t.Fatalf("Get on empty cache: ok=%v err=%v", ok, err)
	}

	if err := c.Put("10.1/x", "journal-article"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	workType, ok, err := c.Get("10.1/x")
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if workType != "journal-article" {
		t.Errorf("workType = %q", workType)
	}

	// Lookups by URL form hit the same row.
	if _, ok, _ := c.Get("https://doi.org/10.1/X"); !ok {
		t.Error("normalized DOI forms should share one cache row")
	}
}

func TestPutReplaces(t *testing.T) {
	c := openTestCache(t)
	c.Put("10.1/x", "article")
	c.Put("10.1/x", "journal-article")

	workType, _, _ := c.Get("10.1/x")
	if workType != "journal-article" {
		t.Errorf("workType = %q, want latest value", workType)
	}
}

type countingSource struct {
	workType string
	err      error
	calls    int
}

func (s *countingSource) WorkType(ctx context.Context, doi string) (string, error) {
	s.calls++
	return s.workType, s.err
}

func TestSourceCachesLookups(t *testing.T) {
	c := openTestCache(t)
	next := &countingSource{workType: "proceedings-article"}
	src := &Source{Cache: c, Next: next}

	for i := 0; i < 3; i++ {
		workType, err := src.WorkType(context.Background(), "10.1/x")
		if err != nil {
			t.Fatalf("WorkType: %v", err)
		}
		if workType != "proceedings-article" {
			t.Errorf("workType = %q", workType)
		}
	}

	if next.calls != 1 {
		t.Errorf("wrapped source called %d times, want 1", next.calls)
	}
}

func TestSourceDoesNotCacheFailures(t *testing.T) {
	c := openTestCache(t)
	next := &countingSource{err: errors.New("boom")}
	src := &Source{Cache: c, Next: next}

	for i := 0; i < 2; i++ {
		if _, err := src.WorkType(context.Background(), "10.1/x"); err == nil {
			t.Fatal("expected error from wrapped source")
		}
	}

	if next.calls != 2 {
		t.Errorf("wrapped source called %d times, want 2 (failures are not cached)", next.calls)
	}
}
