package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/keystonebuyers/propsite/internal/content"
)

func TestStatusView(t *testing.T) {
	m := InitStatusModel(func() (*StatusData, error) { return nil, nil })
	if !strings.Contains(m.View(), "Reading content") {
		t.Errorf("expected scanning view:\n%s", m.View())
	}

	data := &StatusData{
		Source:      "file",
		Location:    "/srv/content",
		SnapshotDir: "/srv/snapshots",
		PageSize:    6,
		Listings:    3,
		ByStatus:    map[content.Status]int{content.StatusForSale: 2, content.StatusSold: 1},
		Posts: []PostStatus{
			{Slug: "selling-fast", Title: "How to sell fast", Blocks: 3, Snapshot: "match"},
			{Slug: "cash-offers", Title: "Cash offers", Blocks: 1, Snapshot: "changed"},
		},
		Leads:    4,
		LastLoad: time.Date(2025, 6, 1, 9, 10, 0, 0, time.Local),
		LogLines: []string{"2025-06-01 09:10:00 INFO content loaded"},
	}
	next, _ := m.Update(StatusMsg{Data: data})
	view := next.(statusModel).View()

	for _, want := range []string{"/srv/content", "2 for sale", "1 sold", "1 post(s) render differently", "selling-fast", "4 captured", "Last load: 2025-06-01 09:10:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	next, _ = m.Update(StatusMsg{Err: errors.New("no such table")})
	if !strings.Contains(next.(statusModel).View(), "no such table") {
		t.Error("expected error view")
	}
}

func TestImportModel(t *testing.T) {
	m := InitImportModel("sqlite", nil)
	if !strings.Contains(m.View(), "Importing content into sqlite") {
		t.Errorf("unexpected view:\n%s", m.View())
	}

	next, _ := m.Update(ImportMsg{Result: &ImportResult{Target: "sqlite", Listings: 3, Posts: 2}})
	if !strings.Contains(next.View(), "Imported 3 listing(s) and 2 post(s) into sqlite") {
		t.Errorf("unexpected view:\n%s", next.View())
	}
	result, err := ImportOutcome(next)
	if err != nil || result.Listings != 3 {
		t.Errorf("ImportOutcome = %+v, %v", result, err)
	}

	next, _ = m.Update(ImportMsg{Err: errors.New("disk full")})
	if _, err := ImportOutcome(next); err == nil {
		t.Error("expected import error")
	}
}
