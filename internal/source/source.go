// Package source loads listings and posts from wherever the CMS content lives.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/content"
)

// ErrNotFound is returned when a post slug does not exist
var ErrNotFound = errors.New("not found")

// Source supplies already-parsed CMS content
type Source interface {
	Listings(ctx context.Context) ([]content.Listing, error)
	Posts(ctx context.Context) ([]content.Post, error)
	Post(ctx context.Context, slug string) (content.Post, error)
	Close() error
}

// Importer is a source that can be filled from another source
type Importer interface {
	Source
	Import(ctx context.Context, listings []content.Listing, posts []content.Post) error
}

// Open returns the source selected by cfg
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.ContentDir), nil
	case config.SourceSQLite, config.SourcePostgres:
		return OpenImporter(ctx, cfg, cfg.Source)
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Source)
}

// OpenImporter opens a SQL store by name for importing
func OpenImporter(ctx context.Context, cfg *config.Config, target string) (Importer, error) {
	switch target {
	case config.SourceSQLite:
		s, err := NewSQLiteSource(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SourcePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres_dsn is not configured")
		}
		s, err := NewPostgresSource(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("cannot import into %q: must be sqlite or postgres", target)
}

// findPost returns the post with slug from posts
func findPost(posts []content.Post, slug string) (content.Post, error) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
}
