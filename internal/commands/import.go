package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/source"
	"github.com/keystonebuyers/propsite/internal/styles"
	"github.com/keystonebuyers/propsite/internal/tui"
)

// Import copies the content export from content_dir into a SQL store
func Import(args []string) error {
	fs := newFlagSet("import")
	target := fs.String("to", config.SourceSQLite, "target store: sqlite or postgres")
	from := fs.String("from", "", "content directory to read (defaults to content_dir)")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	dir := cfg.ContentDir
	if *from != "" {
		dir = *from
	}

	run := func() (*tui.ImportResult, error) {
		return importContent(cfg, dir, *target)
	}

	m := tui.InitImportModel(*target, run)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fail("Error", err)
	}

	result, err := tui.ImportOutcome(final)
	if err != nil {
		// the import view has already shown the error
		log.SourceError("import", err)
		return &exitError{code: 1}
	}
	if result == nil {
		fmt.Println(styles.DimStyle.Render("Import cancelled"))
		return nil
	}
	log.ContentImported(result.Target, result.Listings, result.Posts)
	return nil
}

// importContent reads dir with the file source and upserts everything into target
func importContent(cfg *config.Config, dir, target string) (*tui.ImportResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	start := time.Now()
	files := source.NewFileSource(dir)

	listings, err := files.Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}
	posts, err := files.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	dst, err := source.OpenImporter(ctx, cfg, target)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if err := dst.Import(ctx, listings, posts); err != nil {
		return nil, err
	}

	return &tui.ImportResult{
		Target:   target,
		Listings: len(listings),
		Posts:    len(posts),
		Duration: time.Since(start),
	}, nil
}
