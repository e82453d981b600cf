package source

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/keystonebuyers/propsite/internal/config"
)

func TestSQLiteImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	files := NewFileSource(testContentDir)

	listings, err := files.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	posts, err := files.Posts(ctx)
	if err != nil {
		t.Fatal(err)
	}

	db, err := NewSQLiteSource(filepath.Join(t.TempDir(), "nested", "content.db"))
	if err != nil {
		t.Fatalf("NewSQLiteSource failed: %v", err)
	}
	defer db.Close()

	if err := db.Import(ctx, listings, posts); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	// importing twice updates in place
	if err := db.Import(ctx, listings, posts); err != nil {
		t.Fatalf("second Import failed: %v", err)
	}

	gotListings, err := db.Listings(ctx)
	if err != nil {
		t.Fatalf("Listings failed: %v", err)
	}
	if diff := cmp.Diff(listings, gotListings); diff != "" {
		t.Errorf("listings mismatch (-want +got):\n%s", diff)
	}

	gotPosts, err := db.Posts(ctx)
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if diff := cmp.Diff(posts, gotPosts); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}

	post, err := db.Post(ctx, "cash-offers-explained")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if post.ID != "post-2" {
		t.Errorf("unexpected post %+v", post)
	}
	if _, err := db.Post(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteEmpty(t *testing.T) {
	db, err := NewSQLiteSource(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	listings, err := db.Listings(context.Background())
	if err != nil || len(listings) != 0 {
		t.Errorf("expected empty listings, got %d, %v", len(listings), err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.ContentDir = testContentDir
	src, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open file failed: %v", err)
	}
	if _, ok := src.(*FileSource); !ok {
		t.Errorf("expected *FileSource, got %T", src)
	}

	cfg.Source = config.SourceSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "content.db")
	src, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open sqlite failed: %v", err)
	}
	defer src.Close()
	if _, ok := src.(*SQLiteSource); !ok {
		t.Errorf("expected *SQLiteSource, got %T", src)
	}

	cfg.Source = "mongo"
	if _, err := Open(ctx, cfg); err == nil {
		t.Error("expected error for unknown source")
	}

	if _, err := OpenImporter(ctx, cfg, config.SourceFile); err == nil {
		t.Error("file source should not accept imports")
	}
	cfg.PostgresDSN = ""
	if _, err := OpenImporter(ctx, cfg, config.SourcePostgres); err == nil {
		t.Error("expected error without postgres dsn")
	}
}
