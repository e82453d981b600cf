// Package snapshot compares rendered post HTML with the copies checked in
// under the snapshot directory.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Result is the outcome of comparing one post against its snapshot
type Result struct {
	Slug     string
	Path     string
	Expected string
	Actual   string
	Missing  bool
	Match    bool
}

// Path returns where the snapshot for slug lives
func Path(dir, slug string) string {
	return filepath.Join(dir, slug+".html")
}

// Check compares rendered against the stored snapshot for slug.
// A missing snapshot is not an error; it is reported as Missing.
func Check(slug, rendered, dir string) (Result, error) {
	r := Result{
		Slug:   slug,
		Path:   Path(dir, slug),
		Actual: rendered,
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.Missing = true
			return r, nil
		}
		return r, fmt.Errorf("failed to read snapshot: %w", err)
	}

	r.Expected = string(data)
	r.Match = r.Expected == r.Actual
	return r, nil
}

// Update writes rendered as the snapshot for slug and returns its path
func Update(slug, rendered, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := Path(dir, slug)
	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

// Unified returns a plain unified diff from the snapshot to the fresh render
func Unified(r Result) string {
	if r.Match {
		return ""
	}

	from := filepath.Base(r.Path)
	to := r.Slug + " (rendered)"
	edits := myers.ComputeEdits(span.URIFromPath(from), r.Expected, r.Actual)
	return fmt.Sprint(gotextdiff.ToUnified(from, to, r.Expected, edits))
}

// Diff renders the unified diff for the terminal
func Diff(r Result, width int) string {
	unified := Unified(r)
	if unified == "" {
		return ""
	}

	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// plain diff
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}
	return rendered
}
