package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/markup"
	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/keystonebuyers/propsite/internal/source"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// Output formats for rendered posts
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatTerminal = "term"
)

// newFlagSet creates a flag set that reports errors instead of exiting
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parseFlags parses args; the flag set has already printed any usage error
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	positional, err := parseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return nil, err
	}
	if err != nil {
		return nil, &exitError{code: 2}
	}
	return positional, nil
}

// Render prints a post body as HTML, Markdown or styled terminal text
func Render(args []string) error {
	fs := newFlagSet("render")
	format := fs.String("format", FormatTerminal, "output format: html, markdown or term")
	width := fs.Int("width", 80, "word wrap width for term output")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	if len(positional) != 1 {
		return fail("Usage: propsite render <slug|file> [--format html|markdown|term]", nil)
	}

	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	post, err := loadPost(positional[0], func(slug string) (content.Post, error) {
		src, ctx, cancel, err := openSource(cfg, log)
		if err != nil {
			return content.Post{}, err
		}
		defer cancel()
		defer src.Close()
		return src.Post(ctx, slug)
	})
	if errors.Is(err, source.ErrNotFound) {
		return fail(fmt.Sprintf("No post with slug %q", positional[0]), nil)
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if err != nil {
		log.SourceError("post", err)
		return fail("Error loading post", err)
	}

	nodes := newRenderer(cfg).Render(post.Body)
	log.PostRendered(post.Slug, len(post.Body), len(nodes))

	out, err := formatPost(post, nodes, *format, *width)
	if err != nil {
		return fail("Error rendering post", err)
	}
	fmt.Print(out)
	return nil
}

// loadPost reads a post file when arg names one, otherwise looks the slug up
func loadPost(arg string, bySlug func(string) (content.Post, error)) (content.Post, error) {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml", ".json":
		if _, err := os.Stat(arg); err == nil {
			return source.ReadPostFile(arg)
		}
	}
	return bySlug(arg)
}

// formatPost renders nodes in the requested output format
func formatPost(post content.Post, nodes []render.Node, format string, width int) (string, error) {
	switch format {
	case FormatHTML:
		return render.HTML(nodes), nil
	case FormatMarkdown:
		body := render.Markdown(nodes)
		title := markup.Plain(post.Title)
		if title == "" {
			return body, nil
		}
		return "# " + title + "\n\n" + body, nil
	case FormatTerminal:
		var b strings.Builder
		if title := markup.Plain(post.Title); title != "" {
			b.WriteString(styles.TitleStyle.Render(title))
			b.WriteString("\n")
		}
		if post.PublishedAt != nil {
			b.WriteString(styles.DimStyle.Render(post.PublishedAt.Format("January 2, 2006")))
			b.WriteString("\n")
		}
		b.WriteString(render.Terminal(nodes, width))
		return b.String(), nil
	}
	return "", fmt.Errorf("unknown format %q: must be html, markdown or term", format)
}

// Title sanitizes a raw post title and prints it as safe inline HTML
func Title(args []string) error {
	fs := newFlagSet("title")
	plain := fs.Bool("plain", false, "print text only")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	if len(positional) == 0 {
		return fail("Usage: propsite title <raw> [--plain]", nil)
	}

	raw := strings.Join(positional, " ")
	if *plain {
		fmt.Println(markup.Plain(raw))
		return nil
	}
	fmt.Println(markup.HTML(raw))
	return nil
}
