package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckMissing(t *testing.T) {
	dir := t.TempDir()

	r, err := Check("first-post", "<p>hi</p>\n", dir)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !r.Missing || r.Match {
		t.Errorf("expected missing snapshot, got %+v", r)
	}
	if r.Path != filepath.Join(dir, "first-post.html") {
		t.Errorf("unexpected path %s", r.Path)
	}
}

func TestUpdateThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	rendered := "<h2>Step one</h2>\n<ul><li>Price it right</li></ul>\n"

	path, err := Update("selling-fast", rendered, dir)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	r, err := Check("selling-fast", rendered, dir)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if r.Missing || !r.Match {
		t.Errorf("expected match, got %+v", r)
	}
	if Unified(r) != "" || Diff(r, 80) != "" {
		t.Error("matching snapshot should have no diff")
	}
}

func TestCheckMismatch(t *testing.T) {
	dir := t.TempDir()
	if _, err := Update("post", "<p>old line</p>\n", dir); err != nil {
		t.Fatal(err)
	}

	r, err := Check("post", "<p>new line</p>\n", dir)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if r.Match || r.Missing {
		t.Fatalf("expected mismatch, got %+v", r)
	}

	unified := Unified(r)
	for _, want := range []string{"-<p>old line</p>", "+<p>new line</p>", "post.html"} {
		if !strings.Contains(unified, want) {
			t.Errorf("unified diff missing %q:\n%s", want, unified)
		}
	}

	if Diff(r, 80) == "" {
		t.Error("expected rendered diff output")
	}
}
