package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/view"
)

// Terminal renders sections as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all sections for terminal display.
func (t *Terminal) Render(sections ...Section) string {
	var parts []string
	for _, s := range sections {
		out := t.renderOne(s)
		if out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

func (t *Terminal) renderOne(s Section) string {
	switch v := s.(type) {
	case ListView:
		return t.renderList(v)
	case BoardView:
		return t.renderBoard(v)
	case DetailView:
		return t.renderDetail(v)
	case ReminderList:
		return t.renderReminders(v)
	case StatsView:
		return t.renderStats(v)
	case Message:
		return t.renderMessage(v)
	default:
		return ""
	}
}

func (t *Terminal) renderList(l ListView) string {
	var sb strings.Builder
	header := fmt.Sprintf("Applications (%d)", l.Page.Total)
	if l.Page.TotalPages > 1 {
		header += fmt.Sprintf("  page %d/%d", l.Page.Number, l.Page.TotalPages)
	}
	sb.WriteString(t.theme.Bold.Render(header))
	sb.WriteString("\n")

	if len(l.Page.Items) == 0 {
		msg := "No applications yet."
		if !l.Criteria.IsZero() {
			msg = "No applications match these filters."
		}
		sb.WriteString("  " + t.theme.Muted.Render(msg) + "\n")
		return sb.String()
	}

	idW, companyW, roleW := 2, 7, 4
	for _, r := range l.Page.Items {
		idW = max(idW, runewidth.StringWidth(r.ID))
		companyW = max(companyW, runewidth.StringWidth(r.Company))
		roleW = max(roleW, runewidth.StringWidth(r.Role))
	}
	idW = min(idW, 12)
	companyW = min(companyW, 24)
	roleW = min(roleW, 32)

	sb.WriteString("  ")
	sb.WriteString(t.theme.Muted.Render(strings.Join([]string{
		padRight("ID", idW), padRight("COMPANY", companyW), padRight("ROLE", roleW),
		padRight("STATUS", 18), padRight("PRIORITY", 8), "APPLIED",
	}, "  ")))
	sb.WriteString("\n")

	for _, r := range l.Page.Items {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padRight(truncate(r.ID, idW), idW)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Bold.Render(padRight(truncate(r.Company, companyW), companyW)))
		sb.WriteString("  ")
		sb.WriteString(padRight(truncate(r.Role, roleW), roleW))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Status(r.Status).Render(padRight(r.Status.Label(), 18)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Priority(r.Priority).Render(padRight(string(r.Priority), 8)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(date(r.DateApplied)))
		if r.Archived {
			sb.WriteString(" " + t.theme.Muted.Render("(archived)"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderBoard(b BoardView) string {
	if len(b.Columns) == 0 {
		return ""
	}
	gap := 1
	colW := (t.width - gap*(len(b.Columns)-1)) / len(b.Columns)
	colW = max(colW, 12)

	cols := make([]string, 0, len(b.Columns))
	for _, c := range b.Columns {
		cols = append(cols, t.renderColumn(c, colW))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, interleave(cols, strings.Repeat(" ", gap))...) + "\n"
}

func (t *Terminal) renderColumn(c view.Column, width int) string {
	inner := width - 2
	var lines []string
	title := fmt.Sprintf("%s %d", c.Status.Label(), c.Total)
	lines = append(lines, t.theme.Status(c.Status).Bold(true).Render(truncate(title, width)))
	lines = append(lines, t.theme.Muted.Render(strings.Repeat("─", width)))

	if c.Total == 0 {
		lines = append(lines, t.theme.Muted.Render(truncate("empty", width)))
	}
	for _, r := range c.Cards {
		lines = append(lines, t.theme.Bold.Render(truncate(r.Company, width)))
		lines = append(lines, "  "+truncate(r.Role, inner))
		meta := string(r.Priority)
		if r.DateApplied != nil {
			meta += " " + date(r.DateApplied)
		}
		lines = append(lines, "  "+t.theme.Muted.Render(truncate(meta, inner)))
	}
	if c.Remaining > 0 {
		lines = append(lines, t.theme.Primary.Render(truncate(fmt.Sprintf("+%d more", c.Remaining), width)))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (t *Terminal) renderDetail(d DetailView) string {
	r := d.Record
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(r.Company + " " + t.theme.Icons.Bullet + " " + r.Role))
	sb.WriteString("\n")
	field := func(label, value string, style lipgloss.Style) {
		if value == "" {
			return
		}
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padRight(label, 10)))
		sb.WriteString(style.Render(value))
		sb.WriteString("\n")
	}
	plain := lipgloss.NewStyle()
	field("id", r.ID, t.theme.Muted)
	field("status", r.Status.Label(), t.theme.Status(r.Status))
	field("priority", string(r.Priority), t.theme.Priority(r.Priority))
	field("location", r.Location, plain)
	field("applied", date(r.DateApplied), plain)
	field("url", r.JobURL, t.theme.Primary)
	if r.Archived {
		field("archived", "yes", t.theme.Muted)
	}
	field("updated", stamp(r.UpdatedAt), t.theme.Muted)

	if len(d.Notes) > 0 {
		sb.WriteString("\n" + t.theme.Bold.Render(fmt.Sprintf("Notes (%d)", len(d.Notes))) + "\n")
		for _, n := range d.Notes {
			sb.WriteString("  " + t.theme.Muted.Render(stamp(n.CreatedAt)+" "+shortID(n.ID)) + "\n")
			for _, line := range strings.Split(n.Content, "\n") {
				sb.WriteString("    " + line + "\n")
			}
		}
	}
	if len(d.Contacts) > 0 {
		sb.WriteString("\n" + t.theme.Bold.Render(fmt.Sprintf("Contacts (%d)", len(d.Contacts))) + "\n")
		for _, c := range d.Contacts {
			parts := []string{c.Name}
			for _, v := range []string{c.Email, c.Phone, c.LinkedinURL} {
				if v != "" {
					parts = append(parts, v)
				}
			}
			sb.WriteString("  " + t.theme.Icons.Bullet + " " + strings.Join(parts, "  ") + "\n")
		}
	}
	if len(d.Reminders) > 0 {
		sb.WriteString("\n" + t.renderReminders(ReminderList{Label: "Reminders", Reminders: d.Reminders}))
	}
	if len(d.Activity) > 0 {
		sb.WriteString("\n" + t.theme.Bold.Render("Activity") + "\n")
		for _, a := range d.Activity {
			sb.WriteString("  " + t.theme.Muted.Render(stamp(a.CreatedAt)) + "  " + a.Message + "\n")
		}
	}
	return sb.String()
}

func (t *Terminal) renderReminders(l ReminderList) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(fmt.Sprintf("%s (%d)", l.Label, len(l.Reminders))))
	sb.WriteString("\n")
	if len(l.Reminders) == 0 {
		sb.WriteString("  " + t.theme.Muted.Render("Nothing due.") + "\n")
		return sb.String()
	}
	for _, r := range l.Reminders {
		icon, style := t.theme.Icons.Warn, t.theme.Warning
		if r.Completed {
			icon, style = t.theme.Icons.Pass, t.theme.Success
		}
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Muted.Render(stamp(r.RemindAt) + " " + shortID(r.ID)))
		sb.WriteString("  ")
		sb.WriteString(r.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderStats(s StatsView) string {
	a := s.Analytics
	var sb strings.Builder
	total := 0
	for _, n := range a.StatusCounts {
		total += n
	}
	sb.WriteString(t.theme.Bold.Render(fmt.Sprintf("Pipeline (%d)", total)))
	if s.Source != "" {
		sb.WriteString(t.theme.Muted.Render("  " + s.Source))
	}
	sb.WriteString("\n")

	peak := 0
	for _, n := range a.StatusCounts {
		peak = max(peak, n)
	}
	barW := max(t.width-34, 10)
	for _, name := range orderedStatuses(a.StatusCounts) {
		n := a.StatusCounts[name]
		st := record.Status(name)
		bar := 0
		if peak > 0 {
			bar = n * barW / peak
		}
		sb.WriteString("  ")
		sb.WriteString(padRight(st.Label(), 18))
		sb.WriteString(t.theme.Muted.Render(padLeft(fmt.Sprint(n), 5)))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Status(st).Render(strings.Repeat("█", bar)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + t.theme.Bold.Render("Conversion") + "\n")
	rate := func(label string, v float64) {
		sb.WriteString("  " + padRight(label, 22))
		sb.WriteString(t.theme.Primary.Render(padLeft(fmt.Sprintf("%.1f%%", v), 7)))
		sb.WriteString("\n")
	}
	rate("applied → interview", a.ConversionRates.AppliedToInterview)
	rate("interview → offer", a.ConversionRates.InterviewToOffer)
	rate("applied → offer", a.ConversionRates.AppliedToOffer)

	if len(s.Weeks) > 0 {
		values := make([]float64, len(s.Weeks))
		for i, w := range s.Weeks {
			values[i] = float64(a.AppsPerWeek[w])
		}
		sb.WriteString("\n")
		sb.WriteString(t.theme.Primary.Render("Applied per week: "))
		sb.WriteString(t.theme.Success.Render(sparkline(values, t.theme.Icons.Spark)))
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf(" %.0f this week", values[len(values)-1])))
		sb.WriteString("\n")
		sb.WriteString(t.theme.Muted.Render("  from " + strings.TrimPrefix(s.Weeks[0], "Week of ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderMessage(m Message) string {
	icon, style := t.iconStyle(m.Kind)
	var sb strings.Builder
	sb.WriteString(style.Render(icon + " " + m.Text))
	sb.WriteString("\n")
	for _, h := range m.Hints {
		sb.WriteString("  " + t.theme.Muted.Render("hint: "+h) + "\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func sparkline(values []float64, glyphs []rune) string {
	if len(values) == 0 || len(glyphs) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}
	top := len(glyphs) - 1
	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minVal) / valueRange * float64(top))
		sb.WriteRune(glyphs[max(0, min(idx, top))])
	}
	return sb.String()
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, s := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, s)
	}
	return out
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
