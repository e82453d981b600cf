package commands

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/listings"
	"github.com/keystonebuyers/propsite/internal/logger"
	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/keystonebuyers/propsite/internal/snapshot"
	"github.com/keystonebuyers/propsite/internal/source"
)

const contentDir = "../source/testdata/content"

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		positional []string
		format     string
	}{
		{name: "flag first", args: []string{"--format", "html", "post"}, positional: []string{"post"}, format: "html"},
		{name: "flag last", args: []string{"post", "--format", "markdown"}, positional: []string{"post"}, format: "markdown"},
		{name: "no flags", args: []string{"a", "b"}, positional: []string{"a", "b"}, format: "term"},
		{name: "empty", args: nil, positional: nil, format: "term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet("test")
			format := fs.String("format", "term", "")
			got, err := parseArgs(fs, tt.args)
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}
			if diff := cmp.Diff(tt.positional, got); diff != "" {
				t.Errorf("positional mismatch (-want +got):\n%s", diff)
			}
			if *format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, *format)
			}
		})
	}
}

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://site:s3cret@db:5432/propsite", "postgres://site:xxxxx@db:5432/propsite"},
		{"postgres://site@db/propsite", "postgres://site@db/propsite"},
		{"postgres://db/propsite?user=site&password=s3cret", "postgres://db/propsite?password=xxxxx&user=site"},
		{"host=db user=site password=s3cret sslmode=disable", "host=db user=site password=xxxxx sslmode=disable"},
		{"host=db password='two words' user=site", "host=db password=xxxxx user=site"},
		{"host=db PASSWORD = s3cret", "host=db PASSWORD = xxxxx"},
		{"host=db user=site", "host=db user=site"},
	}
	for _, tt := range tests {
		if got := redactDSN(tt.in); got != tt.want {
			t.Errorf("redactDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propsite.log")
	log := strings.Join([]string{
		"2025-06-01 09:00:00 INFO content loaded source=file listings=3 posts=2 duration=4ms",
		"2025-06-01 09:05:00 WARN snapshot mismatch slug=selling-fast",
		"2025-06-01 09:10:00 INFO content loaded source=sqlite listings=12 posts=4 duration=9ms",
		"2025-06-01 09:11:00 INFO lead captured id=abc kind=contact",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(log), 0644); err != nil {
		t.Fatal(err)
	}

	lines, last, count := ParseLogFile(path, 3)
	if len(lines) != 3 {
		t.Errorf("expected 3 recent lines, got %d", len(lines))
	}
	want := time.Date(2025, 6, 1, 9, 10, 0, 0, time.Local)
	if !last.Equal(want) {
		t.Errorf("expected last load %v, got %v", want, last)
	}
	if count != 12 {
		t.Errorf("expected 12 listings, got %d", count)
	}

	lines, last, _ = ParseLogFile(filepath.Join(t.TempDir(), "missing.log"), 5)
	if len(lines) != 1 || !last.IsZero() {
		t.Errorf("missing log should yield a notice line, got %v", lines)
	}
}

func TestLoadPost(t *testing.T) {
	bySlug := func(slug string) (content.Post, error) {
		return content.Post{Slug: "from-source-" + slug}, nil
	}

	post, err := loadPost(filepath.Join(contentDir, "posts", "cash-offers.json"), bySlug)
	if err != nil {
		t.Fatalf("loadPost failed: %v", err)
	}
	if post.Slug != "cash-offers-explained" {
		t.Errorf("expected the file to be read, got %q", post.Slug)
	}

	post, err = loadPost("selling-fast", bySlug)
	if err != nil || post.Slug != "from-source-selling-fast" {
		t.Errorf("slug lookup not used: %q %v", post.Slug, err)
	}
}

func TestFormatPost(t *testing.T) {
	published := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	post := content.Post{
		Slug:        "p",
		Title:       "How to <b>sell</b>",
		PublishedAt: &published,
		Body: []content.Block{{
			Type:     content.BlockTypeText,
			Style:    content.StyleH2,
			Children: []content.Span{{Text: "Step one"}},
		}},
	}
	nodes := render.Render(post.Body)

	html, err := formatPost(post, nodes, FormatHTML, 80)
	if err != nil || html != "<h2>Step one</h2>\n" {
		t.Errorf("html = %q, %v", html, err)
	}

	md, err := formatPost(post, nodes, FormatMarkdown, 80)
	if err != nil || md != "# How to sell\n\n## Step one\n" {
		t.Errorf("markdown = %q, %v", md, err)
	}

	term, err := formatPost(post, nodes, FormatTerminal, 80)
	if err != nil || !strings.Contains(term, "May 2, 2025") || !strings.Contains(term, "Step one") {
		t.Errorf("term output missing content: %q, %v", term, err)
	}

	if _, err := formatPost(post, nodes, "pdf", 80); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatListings(t *testing.T) {
	files := source.NewFileSource(contentDir)
	all, err := files.Listings(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	filters := listings.DefaultFilters()
	out := formatListings(listings.Apply(all, filters, 1, 6), filters)
	for _, want := range []string{"Riverside Condo", "Maple Street Ranch", "$285,000", "Page 1 of 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Oak Hollow Duplex") {
		t.Error("sold listing should be hidden")
	}

	filters.Location = "nowhere"
	out = formatListings(listings.Apply(all, filters, 1, 6), filters)
	if !strings.Contains(out, "No listings match") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	origLeads := config.LeadsFilePath
	config.LeadsFilePath = func() string { return filepath.Join(dir, "leads.json") }
	t.Cleanup(func() { config.LeadsFilePath = origLeads })

	cfg := config.DefaultConfig()
	cfg.ContentDir = contentDir
	cfg.SQLitePath = filepath.Join(dir, "content.db")
	cfg.SnapshotDir = filepath.Join(dir, "snapshots")
	return cfg
}

func TestImportContentSQLite(t *testing.T) {
	cfg := testConfig(t)

	result, err := importContent(cfg, contentDir, config.SourceSQLite)
	if err != nil {
		t.Fatalf("importContent failed: %v", err)
	}
	if result.Listings != 3 || result.Posts != 2 || result.Target != config.SourceSQLite {
		t.Errorf("unexpected result %+v", result)
	}

	db, err := source.NewSQLiteSource(cfg.SQLitePath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	posts, err := db.Posts(t.Context())
	if err != nil || len(posts) != 2 {
		t.Errorf("expected 2 imported posts, got %d, %v", len(posts), err)
	}

	if _, err := importContent(cfg, contentDir, config.SourceFile); err == nil {
		t.Error("importing into the file source should fail")
	}
}

func TestGatherStatus(t *testing.T) {
	cfg := testConfig(t)
	r := newRenderer(cfg)

	files := source.NewFileSource(contentDir)
	post, err := files.Post(t.Context(), "selling-fast")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.SnapshotDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.SnapshotDir, "selling-fast.html"), []byte(renderHTML(r, post)), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := gatherStatus(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("gatherStatus failed: %v", err)
	}

	if data.Listings != 3 || data.ByStatus[content.StatusSold] != 1 {
		t.Errorf("unexpected listing counts: %d %v", data.Listings, data.ByStatus)
	}

	states := map[string]string{}
	for _, p := range data.Posts {
		states[p.Slug] = p.Snapshot
	}
	want := map[string]string{"cash-offers-explained": "missing", "selling-fast": "match"}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Errorf("snapshot states mismatch (-want +got):\n%s", diff)
	}
	if data.Leads != 0 {
		t.Errorf("expected no leads, got %d", data.Leads)
	}
}

func TestSampleContentMatchesSnapshots(t *testing.T) {
	cfg := config.DefaultConfig()
	files := source.NewFileSource("../../content")

	posts, err := files.Posts(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) == 0 {
		t.Fatal("expected sample posts")
	}

	r := newRenderer(cfg)
	for _, post := range posts {
		result, err := snapshot.Check(post.Slug, renderHTML(r, post), "../../snapshots")
		if err != nil {
			t.Fatalf("Check(%s) failed: %v", post.Slug, err)
		}
		if !result.Match {
			t.Errorf("%s does not match its snapshot:\n%s", post.Slug, snapshot.Unified(result))
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "help", err: flag.ErrHelp, want: 0},
		{name: "failure", err: fail("Error loading posts", errors.New("disk")), want: 1},
		{name: "bad flags", err: &exitError{code: 2}, want: 2},
		{name: "already reported", err: &exitError{code: 1}, want: 1},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	fs := newFlagSet("test")
	fs.SetOutput(io.Discard)
	fs.Bool("update", false, "")

	if _, err := parseFlags(fs, []string{"--nope"}); ExitCode(err) != 2 {
		t.Errorf("unknown flag should exit 2, got %v", err)
	}
	if _, err := parseFlags(fs, []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("help should return flag.ErrHelp, got %v", err)
	}
}

func TestCheckReturnsFailures(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.LogFile = filepath.Join(dir, "propsite.log")

	origConfig := config.ConfigPath
	config.ConfigPath = func() string { return filepath.Join(dir, "config.json") }
	t.Cleanup(func() { config.ConfigPath = origConfig })

	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	err := Check(nil)
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("expected exit status 1 for missing snapshots, got %v", err)
	}

	data, readErr := os.ReadFile(cfg.LogFile)
	if readErr != nil || !strings.Contains(string(data), "content loaded") {
		t.Errorf("log file should be written before returning: %q, %v", data, readErr)
	}

	if err := Check([]string{"--update"}); err != nil {
		t.Fatalf("check --update failed: %v", err)
	}
	if err := Check(nil); err != nil {
		t.Errorf("check after update should pass, got %v", err)
	}
}
