package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keystonebuyers/propsite/internal/content"
)

// PostgresSource reads content from a shared Postgres database.
// Documents are stored as JSONB so the CMS shape survives unchanged.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects to dsn and ensures the schema exists
func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	s := &PostgresSource{pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the content tables if needed
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	sql := `
	CREATE TABLE IF NOT EXISTS propsite_listings (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		property_type TEXT NOT NULL DEFAULT '',
		price NUMERIC(14,2),
		published_at TIMESTAMPTZ,
		doc JSONB NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_propsite_listings_status ON propsite_listings(status);

	CREATE TABLE IF NOT EXISTS propsite_posts (
		slug TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		published_at TIMESTAMPTZ,
		doc JSONB NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Listings returns every stored listing in id order
func (s *PostgresSource) Listings(ctx context.Context) ([]content.Listing, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM propsite_listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	out := []content.Listing{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var l content.Listing
		if err := json.Unmarshal(doc, &l); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Posts returns every stored post in slug order
func (s *PostgresSource) Posts(ctx context.Context) ([]content.Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM propsite_posts ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	out := []content.Post{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p content.Post
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Post returns the post with slug
func (s *PostgresSource) Post(ctx context.Context, slug string) (content.Post, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM propsite_posts WHERE slug = $1`, slug).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return content.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return content.Post{}, fmt.Errorf("query post: %w", err)
	}

	var p content.Post
	if err := json.Unmarshal(doc, &p); err != nil {
		return content.Post{}, fmt.Errorf("decode post: %w", err)
	}
	return p, nil
}

// Import upserts listings and posts in a single batch
func (s *PostgresSource) Import(ctx context.Context, listings []content.Listing, posts []content.Post) error {
	if len(listings) == 0 && len(posts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	listingSQL := `
	INSERT INTO propsite_listings (id, slug, title, status, property_type, price, published_at, doc)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		slug = EXCLUDED.slug,
		title = EXCLUDED.title,
		status = EXCLUDED.status,
		property_type = EXCLUDED.property_type,
		price = EXCLUDED.price,
		published_at = EXCLUDED.published_at,
		doc = EXCLUDED.doc,
		imported_at = NOW();
	`
	postSQL := `
	INSERT INTO propsite_posts (slug, title, published_at, doc)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (slug) DO UPDATE SET
		title = EXCLUDED.title,
		published_at = EXCLUDED.published_at,
		doc = EXCLUDED.doc,
		imported_at = NOW();
	`

	for _, l := range listings {
		doc, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("encode listing %s: %w", l.ID, err)
		}
		batch.Queue(listingSQL, l.ID, l.Slug, l.Title, string(l.Status), l.PropertyType, l.Price, l.PublishedAt, doc)
	}
	for _, p := range posts {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode post %s: %w", p.Slug, err)
		}
		batch.Queue(postSQL, p.Slug, p.Title, p.PublishedAt, doc)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("batch upsert failed at row %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Close releases the pool
func (s *PostgresSource) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
