// Package styles holds the terminal palette shared by commands and the browser.
package styles

import "github.com/charmbracelet/lipgloss"

// Keystone brand palette, tuned for dark terminals
const (
	Background = "#1F2A2E"
	Foreground = "#F4F1EA"

	Red    = "#E5534B" // errors, sold
	Orange = "#E8A05C" // warnings, for rent
	Gold   = "#F2C14E" // highlights, prices
	Green  = "#7BC47F" // success, for sale
	Teal   = "#5FB3B3" // info, links
	Brick  = "#C8553D" // titles

	Muted  = "#7D8B8F" // help text
	Border = "#4A5A5E"
)

var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Muted))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Brick))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Gold)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Brick))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Muted))
	LabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Teal)).Bold(true)
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))
	PriceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Gold))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Brick))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Gold))

	ModalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Brick)).
			Padding(1, 2)
)

// StatusStyle colors a listing status label
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "for-sale":
		return SuccessStyle
	case "for-rent":
		return WarningStyle
	case "sold", "rented":
		return ErrorStyle
	}
	return DimStyle
}
