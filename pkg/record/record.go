// Package record defines the job-application record and the closed status and
// priority enumerations the views are built on.
package record

import (
	"strings"
	"time"
)

// Status is a workflow stage. Values outside the six known stages survive
// decoding unchanged so callers can branch on Known() instead of failing.
type Status string

const (
	StatusSaved     Status = "SAVED"
	StatusApplied   Status = "APPLIED"
	StatusOA        Status = "OA"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// Statuses is the board's column order.
var Statuses = []Status{
	StatusSaved,
	StatusApplied,
	StatusOA,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

var statusLabels = map[Status]string{
	StatusSaved:     "Saved",
	StatusApplied:   "Applied",
	StatusOA:        "Online Assessment",
	StatusInterview: "Interview",
	StatusOffer:     "Offer",
	StatusRejected:  "Rejected",
}

// Known reports whether s is one of the six workflow stages.
func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human-readable column title. Unknown values label themselves.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Index is the column position of s, or -1 when s is unknown.
func (s Status) Index() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Next and Prev step along the board order and stop at the ends. Unknown
// statuses do not move.
func (s Status) Next() Status {
	i := s.Index()
	if i < 0 || i == len(Statuses)-1 {
		return s
	}
	return Statuses[i+1]
}

func (s Status) Prev() Status {
	i := s.Index()
	if i <= 0 {
		return s
	}
	return Statuses[i-1]
}

// ParseStatus accepts a stage name in any case, with "interview" style or
// label style input ("online assessment").
func ParseStatus(v string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(v))
	if s := Status(norm); s.Known() {
		return s, true
	}
	for s, label := range statusLabels {
		if strings.EqualFold(label, strings.TrimSpace(v)) {
			return s, true
		}
	}
	return Status(norm), false
}

// Priority ranks a record. Unknown values are preserved like Status.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Known reports whether p is LOW, MEDIUM or HIGH.
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts any case.
func ParsePriority(v string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(v)))
	return p, p.Known()
}

// Record is one tracked application.
type Record struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Location    string     `json:"location,omitempty"`
	Status      Status     `json:"status"`
	DateApplied *time.Time `json:"dateApplied,omitempty"`
	JobURL      string     `json:"jobUrl,omitempty"`
	Priority    Priority   `json:"priority"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	if r.DateApplied != nil {
		d := *r.DateApplied
		r.DateApplied = &d
	}
	return r
}

// Input is the writable subset of a Record sent on create and update.
type Input struct {
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Location    string     `json:"location,omitempty"`
	Status      Status     `json:"status,omitempty"`
	DateApplied *time.Time `json:"dateApplied,omitempty"`
	JobURL      string     `json:"jobUrl,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Archived    bool       `json:"archived"`
}

// InputOf returns the writable fields of r, for read-modify-write updates.
func InputOf(r Record) Input {
	return Input{
		Company:     r.Company,
		Role:        r.Role,
		Location:    r.Location,
		Status:      r.Status,
		DateApplied: r.DateApplied,
		JobURL:      r.JobURL,
		Priority:    r.Priority,
		Archived:    r.Archived,
	}
}

// Missing lists required fields that are empty. The client refuses to send
// an Input with missing fields.
func (in Input) Missing() []string {
	var missing []string
	if strings.TrimSpace(in.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(in.Role) == "" {
		missing = append(missing, "role")
	}
	return missing
}
