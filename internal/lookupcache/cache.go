// Package lookupcache persists Crossref work types by DOI so repeated runs
// over the same collection skip the network.
package lookupcache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/refsift/refsift/internal/classify"
	"github.com/refsift/refsift/internal/record"
)

// Cache wraps a SQLite database of DOI → work type rows.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path, creating
// parent directories as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS work_types (
			doi TEXT PRIMARY KEY,
			work_type TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached work type for a DOI, with ok=false on a miss.
func (c *Cache) Get(doi string) (workType string, ok bool, err error) {
	doi = record.NormalizeDOI(doi)
	row := c.db.QueryRow(`SELECT work_type FROM work_types WHERE doi = ?`, doi)
	if err := row.Scan(&workType); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying cache: %w", err)
	}
	return workType, true, nil
}

// Put stores the work type for a DOI, replacing any previous row.
func (c *Cache) Put(doi, workType string) error {
	doi = record.NormalizeDOI(doi)
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO work_types (doi, work_type, fetched_at) VALUES (?, ?, ?)`,
		doi, workType, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing cache row: %w", err)
	}
	return nil
}

// Source is a classify.TypeSource that consults the cache before delegating
// to the wrapped source. Cache hits skip the wrapped source entirely, and
// with it the politeness throttle.
type Source struct {
	Cache *Cache
	Next  classify.TypeSource
}

// WorkType implements classify.TypeSource.
func (s *Source) WorkType(ctx context.Context, doi string) (string, error) {
	if workType, ok, err := s.Cache.Get(doi); err == nil && ok {
		return workType, nil
	}

	workType, err := s.Next.WorkType(ctx, doi)
	if err != nil {
		return "", err
	}

	// A failed write leaves the cache cold but the lookup still succeeded.
	if err := s.Cache.Put(doi, workType); err != nil {
		return workType, nil
	}
	return workType, nil
}
