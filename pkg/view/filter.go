package view

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dkoosis/apptrack/pkg/record"
)

// All is the selector value that matches every status or priority.
const All = "ALL"

// Criteria narrows a record set. The zero value matches everything except
// archived records (see Filter).
type Criteria struct {
	// Query is matched case-insensitively against company, role and location.
	Query string `json:"query,omitempty"`
	// Status is "", All, or one stage.
	Status record.Status `json:"status,omitempty"`
	// Priority is "", All, or one priority.
	Priority record.Priority `json:"priority,omitempty"`
	// Company is an extra case-insensitive substring on company only.
	Company string `json:"company,omitempty"`
	// AppliedSince, when non-zero, keeps only records applied at or after it.
	// Records without an applied date are dropped.
	AppliedSince time.Time `json:"appliedSince,omitzero"`
}

// IsZero reports whether c filters nothing beyond archived visibility.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" &&
		matchesAllStatus(c.Status) &&
		matchesAllPriority(c.Priority) &&
		strings.TrimSpace(c.Company) == "" &&
		c.AppliedSince.IsZero()
}

func matchesAllStatus(s record.Status) bool     { return s == "" || s == All }
func matchesAllPriority(p record.Priority) bool { return p == "" || p == All }

// Filter returns the records that pass every step, in input order. Steps run
// in a fixed order: archived visibility, text search, company, applied-since,
// status, priority. records is never modified and the result is never nil.
func Filter(records []record.Record, c Criteria, showArchived bool) []record.Record {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(c.Query))
	company := fold.String(strings.TrimSpace(c.Company))

	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if !showArchived && r.Archived {
			continue
		}
		if query != "" &&
			!strings.Contains(fold.String(r.Company), query) &&
			!strings.Contains(fold.String(r.Role), query) &&
			!strings.Contains(fold.String(r.Location), query) {
			continue
		}
		if company != "" && !strings.Contains(fold.String(r.Company), company) {
			continue
		}
		if !c.AppliedSince.IsZero() && (r.DateApplied == nil || r.DateApplied.Before(c.AppliedSince)) {
			continue
		}
		if !matchesAllStatus(c.Status) && r.Status != c.Status {
			continue
		}
		if !matchesAllPriority(c.Priority) && r.Priority != c.Priority {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SinceDays converts a "last N days" selector into an AppliedSince cutoff.
// Zero or negative days means no cutoff.
func SinceDays(now time.Time, days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
