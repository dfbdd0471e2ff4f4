package view

import "github.com/dkoosis/apptrack/pkg/record"

// Column is one status bucket as displayed on the board.
type Column struct {
	Status record.Status `json:"status"`
	// Total counts every record in the bucket; Cards is the revealed prefix.
	Total     int             `json:"total"`
	Cards     []record.Record `json:"cards"`
	Remaining int             `json:"remaining"`
}

// Board is the board screen's state: search criteria and per-column reveal
// counts. The status and priority selectors of Criteria are ignored because
// columns already split by status.
type Board struct {
	criteria Criteria
	reveal   Reveal
}

// NewBoard returns a Board revealing window cards per column.
func NewBoard(window int) Board {
	return Board{reveal: NewReveal(window)}
}

func (b Board) Criteria() Criteria { return b.criteria }
func (b Board) Reveal() Reveal     { return b.reveal }

// WithCriteria replaces the search criteria. Reveal counts are kept.
func (b Board) WithCriteria(c Criteria) Board {
	c.Status = ""
	c.Priority = ""
	b.criteria = c
	return b
}

func (b Board) WithQuery(q string) Board {
	c := b.criteria
	c.Query = q
	return b.WithCriteria(c)
}

// More reveals another window of column s.
func (b Board) More(s record.Status) Board {
	b.reveal = b.reveal.More(s)
	return b
}

// Derive filters records and splits them into the six workflow columns.
// Records with an unknown status appear in no column.
func (b Board) Derive(records []record.Record, showArchived bool) []Column {
	buckets := Partition(Filter(records, b.criteria, showArchived), record.Statuses)
	cols := make([]Column, 0, len(record.Statuses))
	for _, s := range record.Statuses {
		cards, remaining := b.reveal.Slice(s, buckets[s])
		cols = append(cols, Column{
			Status:    s,
			Total:     len(buckets[s]),
			Cards:     cards,
			Remaining: remaining,
		})
	}
	return cols
}

// Visible counts records shown across all columns after filtering, before
// reveal limits.
func Visible(cols []Column) int {
	n := 0
	for _, c := range cols {
		n += c.Total
	}
	return n
}
