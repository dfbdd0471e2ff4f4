package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/apptrack/pkg/record"
)

// Theme holds all visual styling for the interactive UI.
type Theme struct {
	Colors Colors `yaml:"colors"`
	Icons  Icons  `yaml:"icons"`
	Title  string `yaml:"title"`
}

// Colors defines the palette.
type Colors struct {
	Primary   string `yaml:"primary"`   // Main accent (title, focused column)
	Success   string `yaml:"success"`   // Offer, confirmations
	Error     string `yaml:"error"`     // Rejected, failures
	Warning   string `yaml:"warning"`   // Interview, pending moves
	Muted     string `yaml:"muted"`     // Secondary text
	Text      string `yaml:"text"`      // Normal text
	Border    string `yaml:"border"`    // Unfocused borders
	Highlight string `yaml:"highlight"` // Selected row background
}

// Icons defines the markers used in the UI.
type Icons struct {
	Select  string `yaml:"select"`  // Selected row marker
	Pending string `yaml:"pending"` // Move awaiting the server
	Error   string `yaml:"error"`
	Success string `yaml:"success"`
}

// CompiledTheme holds pre-built lipgloss styles from a Theme.
type CompiledTheme struct {
	colorPrimary lipgloss.Color
	colorSuccess lipgloss.Color
	colorError   lipgloss.Color
	colorWarning lipgloss.Color
	colorMuted   lipgloss.Color

	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	ColumnStyle        lipgloss.Style
	FocusedColumnStyle lipgloss.Style
	SelectedStyle      lipgloss.Style
	UnselectedStyle    lipgloss.Style
	MutedStyle         lipgloss.Style
	StatusBarStyle     lipgloss.Style
	ErrorStyle         lipgloss.Style
	SuccessStyle       lipgloss.Style

	Icons     Icons
	TitleText string
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Colors: Colors{
			Primary:   "#7D56F4", // Purple
			Success:   "#04B575", // Green
			Error:     "#FF5F56", // Red
			Warning:   "#FFBD2E", // Yellow/Orange
			Muted:     "#626262", // Gray
			Text:      "#CCCCCC", // Light gray
			Border:    "#444444", // Dark gray
			Highlight: "#7D56F4", // Purple (same as primary)
		},
		Icons: Icons{
			Select:  "\u25b6", // ▶
			Pending: "\u25cb", // ○
			Error:   "\u2717", // ✗
			Success: "\u2713", // ✓
		},
		Title: "apptrack",
	}
}

// MonoTheme returns a theme with no colors, for NO_COLOR terminals.
func MonoTheme() *Theme {
	return &Theme{
		Icons: Icons{Select: ">", Pending: "~", Error: "x", Success: "+"},
		Title: "apptrack",
	}
}

// Compile builds lipgloss styles from the theme configuration.
func (t *Theme) Compile() *CompiledTheme {
	ct := &CompiledTheme{
		colorPrimary: lipgloss.Color(t.Colors.Primary),
		colorSuccess: lipgloss.Color(t.Colors.Success),
		colorError:   lipgloss.Color(t.Colors.Error),
		colorWarning: lipgloss.Color(t.Colors.Warning),
		colorMuted:   lipgloss.Color(t.Colors.Muted),
		Icons:        t.Icons,
		TitleText:    t.Title,
	}
	text := lipgloss.Color(t.Colors.Text)
	border := lipgloss.Color(t.Colors.Border)
	highlight := lipgloss.Color(t.Colors.Highlight)

	ct.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(ct.colorPrimary).
		Padding(0, 1)

	ct.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ct.colorPrimary)

	ct.ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	ct.FocusedColumnStyle = ct.ColumnStyle.
		BorderForeground(ct.colorPrimary)

	ct.SelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(highlight)

	ct.UnselectedStyle = lipgloss.NewStyle().Foreground(text)
	ct.MutedStyle = lipgloss.NewStyle().Foreground(ct.colorMuted)
	ct.StatusBarStyle = lipgloss.NewStyle().Foreground(ct.colorMuted).MarginTop(1)
	ct.ErrorStyle = lipgloss.NewStyle().Foreground(ct.colorError).Bold(true)
	ct.SuccessStyle = lipgloss.NewStyle().Foreground(ct.colorSuccess)

	if ct.Icons.Select == "" {
		ct.Icons = DefaultTheme().Icons
	}
	if ct.TitleText == "" {
		ct.TitleText = "apptrack"
	}
	return ct
}

// StatusStyle colors a pipeline stage.
func (ct *CompiledTheme) StatusStyle(s record.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch s {
	case record.StatusApplied, record.StatusOA:
		return base.Foreground(ct.colorPrimary)
	case record.StatusInterview:
		return base.Foreground(ct.colorWarning)
	case record.StatusOffer:
		return base.Foreground(ct.colorSuccess)
	case record.StatusRejected:
		return base.Foreground(ct.colorError)
	default:
		return base.Foreground(ct.colorMuted)
	}
}
