package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/view"
)

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	var body string
	switch {
	case m.store.Len() == 0 && m.store.NeedsLoad():
		body = m.spinner.View() + " Loading applications..."
	case m.screen == screenBoard:
		body = m.viewBoard(width)
	default:
		body = m.viewList(width)
	}

	sections := []string{m.viewTitle(width), m.viewFilters(), body, m.viewStatus()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTitle(width int) string {
	name := "Applications"
	if m.screen == screenBoard {
		name = "Board"
	}
	text := m.theme.TitleText + " " + "·" + " " + name
	if m.showArchived {
		text += " (incl. archived)"
	}
	if m.loading {
		text += " " + m.spinner.View()
	}
	if n := m.coord.InFlight(); n > 0 {
		text += fmt.Sprintf(" %s %d saving", m.theme.Icons.Pending, n)
	}
	return m.theme.TitleStyle.Width(width).Render(text)
}

func (m Model) viewFilters() string {
	if m.searching {
		return m.search.View()
	}
	var parts []string
	c := m.list.Criteria()
	if m.screen == screenBoard {
		c = m.board.Criteria()
	}
	if q := strings.TrimSpace(c.Query); q != "" {
		parts = append(parts, "search: "+q)
	}
	if m.screen == screenList {
		if c.Status != "" && c.Status != view.All {
			parts = append(parts, "status: "+c.Status.Label())
		}
		if c.Priority != "" && c.Priority != view.All {
			parts = append(parts, "priority: "+string(c.Priority))
		}
	}
	if len(parts) == 0 {
		return m.theme.MutedStyle.Render("no filters")
	}
	return m.theme.MutedStyle.Render(strings.Join(parts, "  "))
}

func (m Model) viewList(width int) string {
	l, page := m.list.Derive(m.store.Snapshot(), m.showArchived)
	if len(page.Items) == 0 {
		msg := "No applications yet. Add one with `apptrack add`."
		if !l.Criteria().IsZero() {
			msg = "No applications match these filters."
		}
		return m.theme.MutedStyle.Render(msg)
	}

	companyW := max(min(width/4, 28), 10)
	roleW := max(min(width/3, 36), 10)
	lines := make([]string, 0, len(page.Items)+2)
	for i, r := range page.Items {
		pending := "  "
		if m.coord.Pending(r.ID) {
			pending = m.theme.Icons.Pending + " "
		}
		row := fmt.Sprintf("%s%s  %s  %s  %-6s  %s",
			pending,
			runewidth.FillRight(runewidth.Truncate(r.Company, companyW, "…"), companyW),
			runewidth.FillRight(runewidth.Truncate(r.Role, roleW, "…"), roleW),
			runewidth.FillRight(r.Status.Label(), 17),
			r.Priority,
			appliedDate(r))
		if i == m.row {
			lines = append(lines, m.theme.SelectedStyle.Render(m.theme.Icons.Select+" "+row))
		} else {
			lines = append(lines, m.theme.UnselectedStyle.Render("  "+row))
		}
	}
	footer := fmt.Sprintf("page %d/%d · %d applications", page.Number, page.TotalPages, page.Total)
	lines = append(lines, "", m.theme.MutedStyle.Render(footer))
	return strings.Join(lines, "\n")
}

func (m Model) viewBoard(width int) string {
	cols := m.columns()
	if len(cols) == 0 {
		return ""
	}
	// Two border columns and two padding columns per box.
	colW := max((width/len(cols))-4, 10)
	boxes := make([]string, 0, len(cols))
	for ci, c := range cols {
		boxes = append(boxes, m.viewColumn(ci, c, colW))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) viewColumn(ci int, c view.Column, width int) string {
	focused := ci == m.col
	lines := []string{
		m.theme.StatusStyle(c.Status).Render(runewidth.Truncate(fmt.Sprintf("%s %d", c.Status.Label(), c.Total), width, "…")),
	}
	if c.Total == 0 {
		lines = append(lines, m.theme.MutedStyle.Render("empty"))
	}
	for i, r := range c.Cards {
		title := runewidth.Truncate(r.Company, width, "…")
		sub := runewidth.Truncate(r.Role, width, "…")
		if m.coord.Pending(r.ID) {
			title = runewidth.Truncate(m.theme.Icons.Pending+" "+r.Company, width, "…")
		}
		if focused && i == m.card {
			lines = append(lines,
				m.theme.SelectedStyle.Width(width).Render(title),
				m.theme.SelectedStyle.Width(width).Render(sub))
		} else {
			lines = append(lines,
				m.theme.UnselectedStyle.Bold(true).Render(title),
				m.theme.MutedStyle.Render(sub))
		}
	}
	if c.Remaining > 0 {
		lines = append(lines, m.theme.HeaderStyle.Render(fmt.Sprintf("+%d more (m)", c.Remaining)))
	}

	style := m.theme.ColumnStyle
	if focused {
		style = m.theme.FocusedColumnStyle
	}
	return style.Width(width + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) viewStatus() string {
	if m.flash != "" {
		if m.flashErr {
			return m.theme.ErrorStyle.MarginTop(1).Render(m.theme.Icons.Error + " " + m.flash)
		}
		return m.theme.SuccessStyle.MarginTop(1).Render(m.flash)
	}
	return m.theme.StatusBarStyle.Render(m.help.View(m.keys))
}

func appliedDate(r record.Record) string {
	if r.DateApplied == nil {
		return "-"
	}
	return r.DateApplied.Format("2006-01-02")
}
