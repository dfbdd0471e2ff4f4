package view

import "github.com/dkoosis/apptrack/pkg/record"

// DefaultPageSize is the list screen's page size.
const DefaultPageSize = 12

// List is the list screen's state: criteria plus the requested page. Any
// criteria change sends the list back to page 1.
type List struct {
	criteria Criteria
	page     int
	size     int
}

// NewList returns a List on page 1. size <= 0 selects DefaultPageSize.
func NewList(size int) List {
	if size <= 0 {
		size = DefaultPageSize
	}
	return List{page: 1, size: size}
}

func (l List) Criteria() Criteria { return l.criteria }
func (l List) Page() int          { return l.page }
func (l List) PageSize() int      { return l.size }

// WithCriteria replaces the criteria, resetting to page 1 when they differ.
func (l List) WithCriteria(c Criteria) List {
	if c != l.criteria {
		l.criteria = c
		l.page = 1
	}
	return l
}

func (l List) WithQuery(q string) List {
	c := l.criteria
	c.Query = q
	return l.WithCriteria(c)
}

func (l List) WithStatus(s record.Status) List {
	c := l.criteria
	c.Status = s
	return l.WithCriteria(c)
}

func (l List) WithPriority(p record.Priority) List {
	c := l.criteria
	c.Priority = p
	return l.WithCriteria(c)
}

// Cleared drops every criterion.
func (l List) Cleared() List {
	return l.WithCriteria(Criteria{})
}

// GoTo requests page n. Derive clamps it.
func (l List) GoTo(n int) List {
	l.page = n
	return l
}

func (l List) Next() List { return l.GoTo(l.page + 1) }
func (l List) Prev() List { return l.GoTo(l.page - 1) }

// Derive filters and paginates records. The returned List has its page
// clamped to the result so Next/Prev stay in range.
func (l List) Derive(records []record.Record, showArchived bool) (List, Page[record.Record]) {
	size := l.size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := Paginate(Filter(records, l.criteria, showArchived), l.page, size)
	l.page = max(page.Number, 1)
	return l, page
}
