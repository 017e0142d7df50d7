package pubgraph

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubgraph/opengraph"
)

// Store wraps a SQLite database of admin-managed pages. It is a Source.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page renders read while an admin save is writing; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    path TEXT PRIMARY KEY,
    front_matter TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    updated TEXT NOT NULL
);
`)
	return err
}

// Load implements Source. "index" reads the homepage, which is stored under
// the empty path.
func (s *Store) Load(path string) (Page, error) {
	key := path
	if opengraph.IsHomepage(key) {
		key = ""
	}
	var front, body, updated string
	err := s.db.QueryRow(`SELECT front_matter, body, updated FROM pages WHERE path = ?`, key).
		Scan(&front, &body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, err
	}
	return pageFromRow(path, front, body, updated)
}

// List implements Source. The not-found document is not listed.
func (s *Store) List() ([]Page, error) {
	rows, err := s.db.Query(`SELECT path, front_matter, body, updated FROM pages WHERE path != ? ORDER BY path`, NotFoundPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var path, front, body, updated string
		if err := rows.Scan(&path, &front, &body, &updated); err != nil {
			return nil, err
		}
		page, err := pageFromRow(path, front, body, updated)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// SavePage upserts a page. An empty Updated is set to today.
func (s *Store) SavePage(p Page) error {
	if p.Updated == "" {
		p.Updated = time.Now().UTC().Format("2006-01-02")
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO pages (path, front_matter, body, updated) VALUES (?, ?, ?, ?)`,
		p.Path, p.Raw, p.Body, p.Updated)
	return err
}

// DeletePage removes a page by path. Deleting a missing page returns
// ErrNotFound.
func (s *Store) DeletePage(path string) error {
	res, err := s.db.Exec(`DELETE FROM pages WHERE path = ?`, path)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func pageFromRow(path, front, body, updated string) (Page, error) {
	meta, err := ParseFrontMatter(front)
	if err != nil {
		return Page{}, fmt.Errorf("page %q: %w", path, err)
	}
	return Page{Path: path, Meta: meta, Raw: front, Body: body, Updated: updated}, nil
}
