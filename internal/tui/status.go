package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// PostStatus is one post and the state of its snapshot
type PostStatus struct {
	Slug     string
	Title    string
	Blocks   int
	Snapshot string // "match", "changed", "missing"
}

// StatusData holds everything shown on the status screen
type StatusData struct {
	Source      string
	Location    string
	SnapshotDir string
	PageSize    int
	ByStatus    map[content.Status]int
	Listings    int
	Posts       []PostStatus
	Leads       int
	LastLoad    time.Time
	LogLines    []string
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

// StatusFunc gathers the status data
type StatusFunc func() (*StatusData, error)

type statusModel struct {
	spinner  spinner.Model
	table    table.Model
	gather   StatusFunc
	data     *StatusData
	err      error
	scanning bool
}

// InitStatusModel creates the content status screen
func InitStatusModel(gather StatusFunc) statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	columns := []table.Column{
		{Title: "Post", Width: 30},
		{Title: "Title", Width: 36},
		{Title: "Blocks", Width: 7},
		{Title: "Snapshot", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Gold)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		spinner:  s,
		table:    t,
		gather:   gather,
		scanning: true,
	}
}

func (m statusModel) Init() tea.Cmd {
	gather := m.gather
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		data, err := gather()
		return StatusMsg{Data: data, Err: err}
	})
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case StatusMsg:
		m.scanning = false
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Posts))
			for _, p := range m.data.Posts {
				rows = append(rows, table.Row{p.Slug, p.Title, fmt.Sprintf("%d", p.Blocks), snapshotLabel(p.Snapshot)})
			}
			m.table.SetRows(rows)
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Propsite Status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s Reading content...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString(styles.LabelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Source:     %s\n", styles.ValueStyle.Render(m.data.Source)))
	b.WriteString(fmt.Sprintf("  Location:   %s\n", styles.ValueStyle.Render(m.data.Location)))
	b.WriteString(fmt.Sprintf("  Snapshots:  %s\n", styles.ValueStyle.Render(m.data.SnapshotDir)))
	b.WriteString(fmt.Sprintf("  Page size:  %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", m.data.PageSize))))
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Listings"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d total", m.data.Listings))))
	for _, st := range content.Statuses {
		n := m.data.ByStatus[st]
		if n == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s\n", styles.StatusStyle(string(st)).Render(fmt.Sprintf("● %d %s", n, strings.ToLower(st.Label())))))
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Snapshots"))
	b.WriteString("\n")
	changed, missing := 0, 0
	for _, p := range m.data.Posts {
		switch p.Snapshot {
		case "changed":
			changed++
		case "missing":
			missing++
		}
	}
	if changed == 0 && missing == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render("✓ All snapshots match")))
	} else {
		if changed > 0 {
			b.WriteString(fmt.Sprintf("  %s\n", styles.ErrorStyle.Render(fmt.Sprintf("✗ %d post(s) render differently", changed))))
		}
		if missing > 0 {
			b.WriteString(fmt.Sprintf("  %s\n", styles.HighlightStyle.Render(fmt.Sprintf("● %d post(s) without a snapshot", missing))))
		}
	}
	b.WriteString("\n")

	if len(m.data.Posts) > 0 {
		b.WriteString(styles.LabelStyle.Render("Posts"))
		b.WriteString("\n")
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.LabelStyle.Render("Leads"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d captured", m.data.Leads))))
	b.WriteString("\n")

	if len(m.data.LogLines) > 0 {
		b.WriteString(styles.LabelStyle.Render("Recent Activity"))
		b.WriteString("\n")
		if !m.data.LastLoad.IsZero() {
			b.WriteString(fmt.Sprintf("  Last load: %s\n", styles.ValueStyle.Render(m.data.LastLoad.Format(time.DateTime))))
		}
		for _, line := range m.data.LogLines {
			b.WriteString("  " + styles.DimStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • q quit"))
	b.WriteString("\n")
	return b.String()
}

func snapshotLabel(s string) string {
	switch s {
	case "match":
		return "✓ match"
	case "changed":
		return "⚠ changed"
	case "missing":
		return "✗ missing"
	}
	return s
}
