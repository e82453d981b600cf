package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/keystonebuyers/propsite/internal/content"
	"github.com/keystonebuyers/propsite/internal/listings"
	"github.com/keystonebuyers/propsite/internal/logger"
	"github.com/keystonebuyers/propsite/internal/modal"
	"github.com/keystonebuyers/propsite/internal/render"
	"github.com/keystonebuyers/propsite/internal/styles"
)

type mode int

const (
	modeTable mode = iota
	modeDetail
	modeFilter
	modeContact
)

// ListingsMsg is sent when the source has loaded
type ListingsMsg struct {
	Listings []content.Listing
	Err      error
}

// LoadFunc fetches every listing from the configured source
type LoadFunc func() ([]content.Listing, error)

var contactLabels = []string{"Name", "Email", "Phone", "Message"}

type browseModel struct {
	spinner  spinner.Model
	table    table.Model
	viewport viewport.Model

	load     LoadFunc
	renderer *render.Renderer
	modal    *modal.Controller
	log      *logger.Logger

	all      []content.Listing
	filters  listings.FilterState
	page     int
	pageSize int
	result   listings.Result

	mode    mode
	loading bool
	err     error
	notice  string
	width   int
	height  int

	// filter prompt
	field  listings.Field
	prompt string
	input  string

	// contact form
	contact [4]string
	focus   int
}

// InitBrowseModel creates the listings browser. Leads captured from the
// contact form go through ctrl.
func InitBrowseModel(load LoadFunc, r *render.Renderer, ctrl *modal.Controller, log *logger.Logger, pageSize int) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	columns := []table.Column{
		{Title: "Title", Width: 32},
		{Title: "Price", Width: 12},
		{Title: "Beds", Width: 5},
		{Title: "Location", Width: 22},
		{Title: "Type", Width: 14},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(pageSize+1),
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

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	if log == nil {
		log = logger.Discard()
	}

	return browseModel{
		spinner:  s,
		table:    t,
		viewport: vp,
		load:     load,
		renderer: r,
		modal:    ctrl,
		log:      log,
		filters:  listings.DefaultFilters(),
		page:     1,
		pageSize: pageSize,
		loading:  load != nil,
		width:    100,
		height:   30,
	}
}

func (m browseModel) Init() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ls, err := load()
		return ListingsMsg{Listings: ls, Err: err}
	})
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ListingsMsg:
		m.loading = false
		m.err = msg.Err
		m.all = msg.Listings
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading || m.err != nil {
			if msg.String() == "q" || msg.String() == "esc" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg), nil
		case modeContact:
			return m.updateContact(msg), nil
		case modeDetail:
			return m.updateDetail(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

func (m browseModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.notice = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k", "down", "j":
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case "n", "right":
		if m.page < m.result.TotalPages {
			m.page++
			m.refresh()
		}
	case "p", "left":
		if m.page > 1 {
			m.page--
			m.refresh()
		}
	case "s":
		m.filters.SortBy = m.filters.SortBy.Next()
		m.refresh()
	case "x":
		m.filters.IncludeSold = !m.filters.IncludeSold
		m.page = 1
		m.refresh()
	case "r":
		m.filters.Reset()
		m.page = 1
		m.refresh()
	case "/":
		m.startPrompt(listings.FieldLocation, "Location", m.filters.Location)
	case "b":
		m.startPrompt(listings.FieldMinBedrooms, "Min bedrooms", intString(m.filters.MinBedrooms))
	case "m":
		m.startPrompt(listings.FieldMaxPrice, "Max price", priceString(m.filters.MaxPrice))
	case "t":
		m.startPrompt(listings.FieldPropertyType, "Property type", m.filters.PropertyType)
	case "enter":
		if l, ok := m.selected(); ok {
			m.mode = modeDetail
			m.viewport.SetContent(m.detail(l))
			m.viewport.GotoTop()
		}
	case "c":
		m.openContact()
	}

	return m, nil
}

func (m browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "esc":
		m.mode = modeTable
	case "c":
		m.openContact()
	case "up", "k", "down", "j", "pgup", "pgdown":
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateFilter(msg tea.KeyMsg) browseModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeTable
	case tea.KeyEnter:
		if err := m.filters.Set(m.field, m.input); err != nil {
			m.notice = err.Error()
		} else {
			m.page = 1
			m.refresh()
		}
		m.mode = modeTable
	case tea.KeyBackspace:
		m.input = dropLastRune(m.input)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

func (m browseModel) updateContact(msg tea.KeyMsg) browseModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal.Close()
		m.mode = modeTable
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.contact)
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(m.contact) - 1) % len(m.contact)
	case tea.KeyEnter:
		lead, err := m.modal.Submit(modal.Fields{
			Name:    m.contact[0],
			Email:   m.contact[1],
			Phone:   m.contact[2],
			Message: m.contact[3],
		})
		if err != nil {
			m.notice = err.Error()
			return m
		}
		m.log.LeadCaptured(lead.ID, lead.Kind, lead.ListingID)
		m.notice = "✓ Thanks " + lead.Name + ", we'll be in touch"
		m.mode = modeTable
	case tea.KeyBackspace:
		m.contact[m.focus] = dropLastRune(m.contact[m.focus])
	case tea.KeySpace:
		m.contact[m.focus] += " "
	case tea.KeyRunes:
		m.contact[m.focus] += string(msg.Runes)
	}
	return m
}

func (m *browseModel) startPrompt(field listings.Field, label, current string) {
	m.mode = modeFilter
	m.field = field
	m.prompt = label
	m.input = current
}

func (m *browseModel) openContact() {
	if m.modal == nil {
		m.notice = "contact form unavailable"
		return
	}
	if l, ok := m.selected(); ok {
		m.modal.Open(modal.FormViewing, modal.Payload{
			ListingID:    l.ID,
			ListingTitle: l.Title,
			Source:       "browse",
		})
	} else {
		m.modal.Open(modal.FormContact, modal.Payload{Source: "browse"})
	}
	m.contact = [4]string{}
	m.focus = 0
	m.notice = ""
	m.mode = modeContact
}

// refresh recomputes the visible page from the full listing set
func (m *browseModel) refresh() {
	m.result = listings.Apply(m.all, m.filters, m.page, m.pageSize)
	m.page = m.result.Page
	m.log.ListingsQueried(m.result.Total, m.result.Page, m.result.TotalPages)

	rows := make([]table.Row, 0, len(m.result.Visible))
	for _, l := range m.result.Visible {
		rows = append(rows, table.Row{
			l.Title,
			content.FormatPrice(l.Price),
			bedsString(l.Bedrooms),
			l.Location.String(),
			l.PropertyType,
			l.Status.Label(),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m browseModel) selected() (content.Listing, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.Visible) {
		return content.Listing{}, false
	}
	return m.result.Visible[i], true
}

func (m browseModel) detail(l content.Listing) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(l.Title))
	b.WriteString("\n")
	b.WriteString(styles.PriceStyle.Render(content.FormatPrice(l.Price)))
	b.WriteString("  ")
	b.WriteString(styles.StatusStyle(string(l.Status)).Render(l.Status.Label()))
	b.WriteString("\n")

	facts := []string{}
	if l.Bedrooms != nil {
		facts = append(facts, fmt.Sprintf("%d bd", *l.Bedrooms))
	}
	if l.Bathrooms != nil {
		facts = append(facts, fmt.Sprintf("%g ba", *l.Bathrooms))
	}
	if l.Area != nil {
		facts = append(facts, fmt.Sprintf("%.0f sqft", *l.Area))
	}
	if loc := l.Location.String(); loc != "" {
		facts = append(facts, loc)
	}
	if l.PropertyType != "" {
		facts = append(facts, l.PropertyType)
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(facts, " · ")))
	b.WriteString("\n")

	b.WriteString(render.Terminal(m.renderer.Render(l.Description), m.viewport.Width-4))
	return b.String()
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Keystone Listings"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.loading {
		b.WriteString(fmt.Sprintf("%s Loading listings...\n", m.spinner.View()))
		return b.String()
	}

	switch m.mode {
	case modeDetail:
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • c contact • esc/q back"))
		b.WriteString("\n")
		return b.String()

	case modeContact:
		b.WriteString(m.contactView())
		b.WriteString("\n")
		if m.notice != "" {
			b.WriteString(styles.ErrorStyle.Render(m.notice))
			b.WriteString("\n")
		}
		b.WriteString(styles.HelpStyle.Render("tab next • shift+tab prev • enter send • esc cancel"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.LabelStyle.Render(m.summary()))
	b.WriteString("\n\n")

	if m.result.Total == 0 {
		b.WriteString(styles.DimStyle.Render("No listings match your filters."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Page %d of %d", m.result.Page, m.result.TotalPages)))
		b.WriteString("\n\n")
	}

	if m.mode == modeFilter {
		b.WriteString(styles.HighlightStyle.Render(m.prompt+": "))
		b.WriteString(m.input)
		b.WriteString("█\n")
		b.WriteString(styles.HelpStyle.Render("enter apply • empty clears • esc cancel"))
		b.WriteString("\n")
		return b.String()
	}

	if m.notice != "" {
		style := styles.ErrorStyle
		if strings.HasPrefix(m.notice, "✓") {
			style = styles.SuccessStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("j/k move • n/p page • s sort • x sold • / location • b beds • m price • t type • r reset • enter details • c contact • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m browseModel) summary() string {
	parts := []string{fmt.Sprintf("%d listings", m.result.Total), "sort: " + m.filters.SortBy.Label()}
	if m.filters.Location != "" {
		parts = append(parts, "in "+m.filters.Location)
	}
	if m.filters.MinBedrooms > 0 {
		parts = append(parts, fmt.Sprintf("%d+ beds", m.filters.MinBedrooms))
	}
	if m.filters.MaxPrice > 0 {
		parts = append(parts, "under "+priceString(m.filters.MaxPrice))
	}
	if m.filters.PropertyType != "" {
		parts = append(parts, m.filters.PropertyType)
	}
	if m.filters.IncludeSold {
		parts = append(parts, "incl. sold")
	}
	return strings.Join(parts, " • ")
}

func (m browseModel) contactView() string {
	state, _ := m.modal.Current()

	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render(state.Kind.Title()))
	b.WriteString("\n")
	if state.Payload.ListingTitle != "" {
		b.WriteString(styles.DimStyle.Render(state.Payload.ListingTitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, label := range contactLabels {
		line := fmt.Sprintf("%-8s %s", label+":", m.contact[i])
		if i == m.focus {
			line = styles.HighlightStyle.Render("> ") + line + "█"
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return styles.ModalStyle.Render(b.String())
}

// priceString formats a filter price; zero means unset
func priceString(v float64) string {
	if v <= 0 {
		return ""
	}
	return content.FormatPrice(&v)
}

func bedsString(n *int) string {
	if n == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *n)
}

func intString(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
