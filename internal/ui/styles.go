package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorDim     = lipgloss.Color("#565f89")
	colorError   = lipgloss.Color("#f7768e")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorSelect  = lipgloss.Color("#33467c")
	colorBorder  = lipgloss.Color("#3b4261")
	colorFocus   = lipgloss.Color("#7aa2f7")
)

// Styles holds the pre-computed styles of the browser
type Styles struct {
	Title        lipgloss.Style
	Search       lipgloss.Style
	SearchFocus  lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Completed    lipgloss.Style
	Reminder     lipgloss.Style
	Note         lipgloss.Style
	Total        lipgloss.Style
	Help         lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
}

// NewStyles creates the default styles
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1),

		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		SearchFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Underline(true).
			Bold(true).
			Padding(0, 1),

		Item: lipgloss.NewStyle().
			Padding(0, 1),

		ItemSelected: lipgloss.NewStyle().
			Background(colorSelect).
			Bold(true).
			Padding(0, 1),

		Completed: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(colorDim),

		Reminder: lipgloss.NewStyle().
			Foreground(colorDim),

		Note: lipgloss.NewStyle().
			Foreground(colorDim).
			Italic(true).
			PaddingLeft(6),

		Total: lipgloss.NewStyle().
			Bold(true).
			Padding(1, 1, 0, 1),

		Help: lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1),

		Status: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Padding(0, 1),
	}
}
