// Package render provides output renderers for apptrack's views.
package render

import (
	"sort"
	"time"

	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/view"
)

// Renderer converts sections to formatted output.
type Renderer interface {
	Render(sections ...Section) string
}

// Section is one block of output.
type Section interface {
	Type() string
}

// ListView is one page of the filtered list.
type ListView struct {
	Criteria view.Criteria           `json:"criteria"`
	Page     view.Page[record.Record] `json:"page"`
}

// BoardView is the partitioned board.
type BoardView struct {
	Columns []view.Column `json:"columns"`
}

// DetailView is one application with its related entities.
type DetailView struct {
	Record    record.Record     `json:"record"`
	Notes     []record.Note     `json:"notes,omitempty"`
	Contacts  []record.Contact  `json:"contacts,omitempty"`
	Reminders []record.Reminder `json:"reminders,omitempty"`
	Activity  []record.Activity `json:"activity,omitempty"`
}

// ReminderList is a flat list of reminders.
type ReminderList struct {
	Label     string            `json:"label"`
	Reminders []record.Reminder `json:"reminders"`
}

// StatsView is the analytics summary. Weeks orders the AppsPerWeek keys.
type StatsView struct {
	Analytics record.Analytics `json:"analytics"`
	Weeks     []string         `json:"weeks"`
	// Source is "server" or "local".
	Source string `json:"source"`
}

// Message is a one-line outcome such as "moved a1 to INTERVIEW".
type Message struct {
	Kind  string   `json:"kind"` // success, error, warning, info
	Text  string   `json:"text"`
	Hints []string `json:"hints,omitempty"`
}

func (ListView) Type() string     { return "list" }
func (BoardView) Type() string    { return "board" }
func (DetailView) Type() string   { return "detail" }
func (ReminderList) Type() string { return "reminders" }
func (StatsView) Type() string    { return "stats" }
func (Message) Type() string      { return "message" }

// Format names an output mode.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatPlain    Format = "plain"
	FormatJSON     Format = "json"
)

// New returns the renderer for format.
func New(format Format, theme Theme, width int) Renderer {
	switch format {
	case FormatJSON:
		return NewJSON()
	case FormatPlain:
		return NewPlain()
	default:
		return NewTerminal(theme, width)
	}
}

func date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// orderedStatuses lists the keys of counts in board order, then any unknown
// statuses sorted by name.
func orderedStatuses(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, s := range record.Statuses {
		if _, ok := counts[string(s)]; ok {
			out = append(out, string(s))
			seen[string(s)] = true
		}
	}
	var extra []string
	for k := range counts {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
