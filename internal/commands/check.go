package commands

import (
	"fmt"
	"time"

	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/markup"
	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/keystonebuyers/propsite/internal/snapshot"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// Check renders every post and compares it with its stored HTML snapshot.
// With --update, differing and missing snapshots are rewritten.
func Check(args []string) error {
	fs := newFlagSet("check")
	update := fs.Bool("update", false, "write snapshots for changed or missing posts")
	width := fs.Int("width", 120, "word wrap width for diffs")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	src, ctx, cancel, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer cancel()
	defer src.Close()

	start := time.Now()
	posts, err := src.Posts(ctx)
	if err != nil {
		log.SourceError("posts", err)
		return fail("Error loading posts", err)
	}
	log.ContentLoaded(cfg.Source, 0, len(posts), time.Since(start))

	if len(posts) == 0 {
		fmt.Println(styles.DimStyle.Render("No posts to check"))
		return nil
	}

	r := newRenderer(cfg)
	failed := 0

	for _, post := range posts {
		html := renderHTML(r, post)
		result, err := snapshot.Check(post.Slug, html, cfg.SnapshotDir)
		if err != nil {
			return fail("Error checking "+post.Slug, err)
		}

		switch {
		case result.Match:
			fmt.Println(styles.SuccessStyle.Render("✓ " + post.Slug))
			continue

		case *update:
			path, err := snapshot.Update(post.Slug, html, cfg.SnapshotDir)
			if err != nil {
				return fail("Error updating "+post.Slug, err)
			}
			log.SnapshotWritten(post.Slug, path)
			fmt.Println(styles.HighlightStyle.Render("↻ " + post.Slug + " updated"))

		case result.Missing:
			failed++
			fmt.Println(styles.WarningStyle.Render("? " + post.Slug + " has no snapshot"))

		default:
			failed++
			log.SnapshotMismatch(post.Slug, result.Path)
			fmt.Println(styles.ErrorStyle.Render("✗ " + post.Slug + " differs from snapshot"))
			fmt.Print(snapshot.Diff(result, *width))
		}
	}

	if failed > 0 {
		fmt.Println()
		fmt.Println(styles.DimStyle.Render(fmt.Sprintf("%d of %d post(s) need attention. Run 'propsite check --update' to accept.", failed, len(posts))))
		return &exitError{code: 1}
	}
	return nil
}

// renderHTML is the snapshot form of a post body
func renderHTML(r *render.Renderer, post content.Post) string {
	return render.HTML(r.Render(post.Body))
}

// titleText returns the sanitized text of a post title
func titleText(post content.Post) string {
	return markup.Plain(post.Title)
}
