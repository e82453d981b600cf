package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keystonebuyers/propsite/internal/content"
	_ "modernc.org/sqlite"
)

// SQLiteSource keeps content documents in a local SQLite file.
// Each row stores the full CMS document as JSON next to a few indexed columns.
type SQLiteSource struct {
	conn *sql.DB
}

// NewSQLiteSource opens (or creates) the database at path
func NewSQLiteSource(path string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time
	conn.SetMaxOpenConns(1)

	s := &SQLiteSource{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSource) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL DEFAULT '',
			published_at TEXT,
			doc TEXT NOT NULL,
			imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status)`,
		`CREATE TABLE IF NOT EXISTS posts (
			slug TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			published_at TEXT,
			doc TEXT NOT NULL,
			imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Listings returns every stored listing in id order
func (s *SQLiteSource) Listings(ctx context.Context) ([]content.Listing, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT doc FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	out := []content.Listing{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var l content.Listing
		if err := json.Unmarshal([]byte(doc), &l); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Posts returns every stored post in slug order
func (s *SQLiteSource) Posts(ctx context.Context) ([]content.Post, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT doc FROM posts ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	out := []content.Post{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p content.Post
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Post returns the post with slug
func (s *SQLiteSource) Post(ctx context.Context, slug string) (content.Post, error) {
	var doc string
	err := s.conn.QueryRowContext(ctx, `SELECT doc FROM posts WHERE slug = ?`, slug).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return content.Post{}, fmt.Errorf("query post: %w", err)
	}

	var p content.Post
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return content.Post{}, fmt.Errorf("decode post: %w", err)
	}
	return p, nil
}

// Import upserts listings and posts in one transaction
func (s *SQLiteSource) Import(ctx context.Context, listings []content.Listing, posts []content.Post) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, l := range listings {
		doc, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encode listing %s: %w", l.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO listings (id, slug, title, status, property_type, published_at, doc)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				slug = excluded.slug,
				title = excluded.title,
				status = excluded.status,
				property_type = excluded.property_type,
				published_at = excluded.published_at,
				doc = excluded.doc,
				imported_at = CURRENT_TIMESTAMP`,
			l.ID, l.Slug, l.Title, string(l.Status), l.PropertyType, formatTime(l.PublishedAt), string(doc))
		if err != nil {
			return fmt.Errorf("upsert listing %s: %w", l.ID, err)
		}
	}

	for _, p := range posts {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode post %s: %w", p.Slug, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO posts (slug, title, published_at, doc)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				title = excluded.title,
				published_at = excluded.published_at,
				doc = excluded.doc,
				imported_at = CURRENT_TIMESTAMP`,
			p.Slug, p.Title, formatTime(p.PublishedAt), string(doc))
		if err != nil {
			return fmt.Errorf("upsert post %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteSource) Close() error {
	return s.conn.Close()
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
