package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keystonebuyers/propsite/internal/config"
	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/leads"
	"github.com/keystonebuyers/propsite/internal/logger"
	"github.com/keystonebuyers/propsite/internal/modal"
	"github.com/keystonebuyers/propsite/internal/snapshot"
	"github.com/keystonebuyers/propsite/internal/source"
	"github.com/keystonebuyers/propsite/internal/tui"
)

// Browse opens the interactive listings browser
func Browse() error {
	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := leads.Load(config.LeadsFilePath())
	if err != nil {
		return fail("Error loading leads", err)
	}

	load := func() ([]content.Listing, error) {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
		defer cancel()

		src, err := source.Open(ctx, cfg)
		if err != nil {
			log.SourceError("open", err)
			return nil, err
		}
		defer src.Close()

		start := time.Now()
		all, err := src.Listings(ctx)
		if err != nil {
			log.SourceError("listings", err)
			return nil, err
		}
		log.ContentLoaded(cfg.Source, len(all), 0, time.Since(start))
		return all, nil
	}

	m := tui.InitBrowseModel(load, newRenderer(cfg), modal.NewController(store), log, cfg.PageSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fail("Error", err)
	}
	return nil
}

// Status shows the configured source, content counts, snapshot state and leads
func Status() error {
	cfg, log, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	gather := func() (*tui.StatusData, error) {
		return gatherStatus(cfg, log)
	}

	p := tea.NewProgram(tui.InitStatusModel(gather))
	if _, err := p.Run(); err != nil {
		return fail("Error", err)
	}
	return nil
}

func gatherStatus(cfg *config.Config, log *logger.Logger) (*tui.StatusData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	src, err := source.Open(ctx, cfg)
	if err != nil {
		log.SourceError("open", err)
		return nil, err
	}
	defer src.Close()

	start := time.Now()
	all, err := src.Listings(ctx)
	if err != nil {
		log.SourceError("listings", err)
		return nil, err
	}
	posts, err := src.Posts(ctx)
	if err != nil {
		log.SourceError("posts", err)
		return nil, err
	}
	log.ContentLoaded(cfg.Source, len(all), len(posts), time.Since(start))

	data := &tui.StatusData{
		Source:      cfg.Source,
		Location:    describeSource(cfg),
		SnapshotDir: cfg.SnapshotDir,
		PageSize:    cfg.PageSize,
		ByStatus:    map[content.Status]int{},
		Listings:    len(all),
	}
	for _, l := range all {
		data.ByStatus[l.Status]++
	}

	r := newRenderer(cfg)
	for _, post := range posts {
		result, err := snapshot.Check(post.Slug, renderHTML(r, post), cfg.SnapshotDir)
		if err != nil {
			return nil, err
		}
		data.Posts = append(data.Posts, tui.PostStatus{
			Slug:     post.Slug,
			Title:    titleText(post),
			Blocks:   len(post.Body),
			Snapshot: snapshotState(result),
		})
	}

	store, err := leads.Load(config.LeadsFilePath())
	if err != nil {
		return nil, err
	}
	data.Leads = len(store.Leads)

	if cfg.LogFile != "" {
		data.LogLines, data.LastLoad, _ = ParseLogFile(cfg.LogFile, 5)
	}

	return data, nil
}

func snapshotState(r snapshot.Result) string {
	switch {
	case r.Missing:
		return "missing"
	case r.Match:
		return "match"
	}
	return "changed"
}
