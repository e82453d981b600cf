package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/keystonebuyers/propsite/internal/styles"
)

// ImportResult holds the result of copying content into a SQL store
type ImportResult struct {
	Target   string
	Listings int
	Posts    int
	Duration time.Duration
}

// ImportMsg is sent when the import finishes
type ImportMsg struct {
	Result *ImportResult
	Err    error
}

// ImportFunc performs the import
type ImportFunc func() (*ImportResult, error)

// importModel shows a spinner while content is copied into a SQL store
type importModel struct {
	spinner  spinner.Model
	status   string
	run      ImportFunc
	complete bool
	result   *ImportResult
	err      error
}

// InitImportModel creates the import progress model
func InitImportModel(target string, run ImportFunc) importModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return importModel{
		spinner: s,
		status:  fmt.Sprintf("Importing content into %s...", target),
		run:     run,
	}
}

func (m importModel) Init() tea.Cmd {
	run := m.run
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := run()
		return ImportMsg{Result: result, Err: err}
	})
}

func (m importModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case ImportMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m importModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Import failed: "+m.err.Error()) + "\n"
	}

	if m.result.Listings == 0 && m.result.Posts == 0 {
		return styles.SuccessStyle.Render("✓ Nothing to import") + "\n"
	}

	return styles.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d listing(s) and %d post(s) into %s",
		m.result.Listings, m.result.Posts, m.result.Target)) + "\n" +
		styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", m.result.Duration.Round(time.Millisecond))) + "\n"
}

// ImportOutcome returns the result held by a finished import program.
// Both values are nil when the user quit before the import completed.
func ImportOutcome(m tea.Model) (*ImportResult, error) {
	im, ok := m.(importModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", m)
	}
	return im.result, im.err
}
