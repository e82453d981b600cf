package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keystonebuyers/propsite/internal/content"
	"gopkg.in/yaml.v3"
)

// FileSource reads a content export from disk:
//
//	<dir>/listings.yaml
//	<dir>/posts/<slug>.yaml | .yml | .json
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Listings reads listings.yaml. A missing file means no listings.
func (s *FileSource) Listings(ctx context.Context) ([]content.Listing, error) {
	path := filepath.Join(s.dir, "listings.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []content.Listing{}, nil
		}
		return nil, err
	}

	var listings []content.Listing
	if err := yaml.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if listings == nil {
		listings = []content.Listing{}
	}
	return listings, nil
}

// Posts reads every post file, sorted by slug
func (s *FileSource) Posts(ctx context.Context) ([]content.Post, error) {
	dir := filepath.Join(s.dir, "posts")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []content.Post{}, nil
		}
		return nil, err
	}

	posts := []content.Post{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, e.Name())
		post, ok, err := readPost(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if post.Slug == "" {
			post.Slug = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// Post returns the post with slug
func (s *FileSource) Post(ctx context.Context, slug string) (content.Post, error) {
	posts, err := s.Posts(ctx)
	if err != nil {
		return content.Post{}, err
	}
	return findPost(posts, slug)
}

// Close is a no-op for files
func (s *FileSource) Close() error {
	return nil
}

// ReadPostFile reads a single post document outside of a content dir
func ReadPostFile(path string) (content.Post, error) {
	post, ok, err := readPost(path)
	if err != nil {
		return content.Post{}, err
	}
	if !ok {
		return content.Post{}, fmt.Errorf("unsupported post file %s: want .yaml, .yml or .json", path)
	}
	if post.Slug == "" {
		base := filepath.Base(path)
		post.Slug = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return post, nil
}

// readPost decodes a post by extension; ok is false for other files
func readPost(path string) (content.Post, bool, error) {
	var post content.Post

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return post, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return post, false, err
	}

	if ext == ".json" {
		err = json.Unmarshal(data, &post)
	} else {
		err = yaml.Unmarshal(data, &post)
	}
	if err != nil {
		return post, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return post, true, nil
}
