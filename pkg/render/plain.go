package render

import (
	"fmt"
	"strings"
)

// Plain renders sections as tab-separated text with no ANSI codes. Output is
// deterministic so it can be piped into other tools.
type Plain struct{}

// NewPlain creates a plain-text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats all sections as plain text.
func (p *Plain) Render(sections ...Section) string {
	var sb strings.Builder
	for _, s := range sections {
		switch v := s.(type) {
		case ListView:
			p.list(&sb, v)
		case BoardView:
			p.board(&sb, v)
		case DetailView:
			p.detail(&sb, v)
		case ReminderList:
			p.reminders(&sb, v)
		case StatsView:
			p.stats(&sb, v)
		case Message:
			fmt.Fprintf(&sb, "%s: %s\n", strings.ToUpper(v.Kind), v.Text)
			for _, h := range v.Hints {
				fmt.Fprintf(&sb, "HINT: %s\n", h)
			}
		}
	}
	return sb.String()
}

func (p *Plain) list(sb *strings.Builder, l ListView) {
	fmt.Fprintf(sb, "# page %d/%d total %d\n", l.Page.Number, l.Page.TotalPages, l.Page.Total)
	for _, r := range l.Page.Items {
		fmt.Fprintf(sb, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Company, r.Role, r.Status, r.Priority, date(r.DateApplied))
	}
}

func (p *Plain) board(sb *strings.Builder, b BoardView) {
	for _, c := range b.Columns {
		fmt.Fprintf(sb, "## %s %d\n", c.Status, c.Total)
		for _, r := range c.Cards {
			fmt.Fprintf(sb, "%s\t%s\t%s\n", r.ID, r.Company, r.Role)
		}
		if c.Remaining > 0 {
			fmt.Fprintf(sb, "+%d more\n", c.Remaining)
		}
	}
}

func (p *Plain) detail(sb *strings.Builder, d DetailView) {
	r := d.Record
	fmt.Fprintf(sb, "id\t%s\ncompany\t%s\nrole\t%s\nstatus\t%s\npriority\t%s\n",
		r.ID, r.Company, r.Role, r.Status, r.Priority)
	if r.Location != "" {
		fmt.Fprintf(sb, "location\t%s\n", r.Location)
	}
	fmt.Fprintf(sb, "applied\t%s\n", date(r.DateApplied))
	if r.JobURL != "" {
		fmt.Fprintf(sb, "url\t%s\n", r.JobURL)
	}
	fmt.Fprintf(sb, "archived\t%t\n", r.Archived)
	for _, n := range d.Notes {
		fmt.Fprintf(sb, "note\t%s\t%s\n", n.ID, strings.ReplaceAll(n.Content, "\n", " "))
	}
	for _, c := range d.Contacts {
		fmt.Fprintf(sb, "contact\t%s\t%s\t%s\n", c.ID, c.Name, c.Email)
	}
	for _, rm := range d.Reminders {
		fmt.Fprintf(sb, "reminder\t%s\t%s\t%t\t%s\n", rm.ID, stamp(rm.RemindAt), rm.Completed, rm.Message)
	}
	for _, a := range d.Activity {
		fmt.Fprintf(sb, "activity\t%s\t%s\t%s\n", stamp(a.CreatedAt), a.Type, a.Message)
	}
}

func (p *Plain) reminders(sb *strings.Builder, l ReminderList) {
	fmt.Fprintf(sb, "# %s %d\n", strings.ToLower(l.Label), len(l.Reminders))
	for _, r := range l.Reminders {
		fmt.Fprintf(sb, "%s\t%s\t%s\t%t\t%s\n", r.ID, r.ApplicationID, stamp(r.RemindAt), r.Completed, r.Message)
	}
}

func (p *Plain) stats(sb *strings.Builder, s StatsView) {
	a := s.Analytics
	for _, name := range orderedStatuses(a.StatusCounts) {
		fmt.Fprintf(sb, "status\t%s\t%d\n", name, a.StatusCounts[name])
	}
	fmt.Fprintf(sb, "rate\tappliedToInterview\t%.1f\n", a.ConversionRates.AppliedToInterview)
	fmt.Fprintf(sb, "rate\tinterviewToOffer\t%.1f\n", a.ConversionRates.InterviewToOffer)
	fmt.Fprintf(sb, "rate\tappliedToOffer\t%.1f\n", a.ConversionRates.AppliedToOffer)
	for _, w := range s.Weeks {
		fmt.Fprintf(sb, "week\t%s\t%d\n", w, a.AppsPerWeek[w])
	}
}
