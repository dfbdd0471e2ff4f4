package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/apptrack/pkg/record"
)

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	// Stages colors each pipeline column. Missing stages render Muted.
	Stages  map[record.Status]lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass   string
	Fail   string
	Warn   string
	Info   string
	Bullet string
	Spark  []rune
}

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func fg(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

// stagePalette maps the pipeline, coolest for SAVED to warmest for OFFER.
func stagePalette(saved, applied, oa, interview, offer, rejected string) map[record.Status]lipgloss.Style {
	return map[record.Status]lipgloss.Style{
		record.StatusSaved:     fg(saved),
		record.StatusApplied:   fg(applied),
		record.StatusOA:        fg(oa),
		record.StatusInterview: fg(interview),
		record.StatusOffer:     fg(offer).Bold(true),
		record.StatusRejected:  fg(rejected),
	}
}

// DefaultTheme colors the board like a hiring pipeline.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: fg("#5FAFD7"), // steel blue
		Success: fg("#5FD787"), // offer green
		Warning: fg("#FFAF5F"), // amber
		Error:   fg("#D75F5F"), // brick
		Muted:   fg("#8A8A8A"),
		Bold:    lipgloss.NewStyle().Bold(true),
		Stages:  stagePalette("#8A8A8A", "#5FAFD7", "#5FD7D7", "#FFAF5F", "#5FD787", "#D75F5F"),
		Icons: ThemeIcons{
			Pass:   "✔",
			Fail:   "✘",
			Warn:   "▲",
			Info:   "›",
			Bullet: "•",
			Spark:  blocks,
		},
	}
}

// OrcaTheme is a low-contrast variant for light or dim terminals.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: fg("#6C8EBF"),
		Success: fg("#7FA36B"),
		Warning: fg("#C9A35B"),
		Error:   fg("#B8645E"),
		Muted:   fg("#9E9E9E"),
		Bold:    lipgloss.NewStyle().Bold(true),
		Stages:  stagePalette("#9E9E9E", "#6C8EBF", "#6BA3A3", "#C9A35B", "#7FA36B", "#B8645E"),
		Icons: ThemeIcons{
			Pass:   "✔",
			Fail:   "✘",
			Warn:   "!",
			Info:   "·",
			Bullet: "·",
			Spark:  blocks,
		},
	}
}

// MonoTheme returns a monochrome ASCII theme.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:   "+",
			Fail:   "x",
			Warn:   "!",
			Info:   "*",
			Bullet: "-",
			Spark:  []rune("_.-=+*#@"),
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// Status returns the style for a pipeline stage.
func (t Theme) Status(s record.Status) lipgloss.Style {
	if st, ok := t.Stages[s]; ok {
		return st
	}
	return t.Muted
}

// Priority returns the style for a priority.
func (t Theme) Priority(p record.Priority) lipgloss.Style {
	switch p {
	case record.PriorityHigh:
		return t.Error
	case record.PriorityLow:
		return t.Muted
	default:
		return t.Primary
	}
}
