package fakeapi

import (
	"fmt"
	"time"

	"github.com/dkoosis/apptrack/pkg/record"
)

type demoApp struct {
	company, role, location string
	status                  record.Status
	priority                record.Priority
	daysAgo                 int // applied this many days before now; -1 for never
	archived                bool
}

var demoApps = []demoApp{
	{"Northwind", "Backend Engineer", "Remote", record.StatusSaved, record.PriorityHigh, -1, false},
	{"Globex", "Platform Engineer", "Berlin", record.StatusSaved, record.PriorityMedium, -1, false},
	{"Initech", "Site Reliability Engineer", "Austin", record.StatusApplied, record.PriorityMedium, 3, false},
	{"Umbrella", "Go Developer", "Remote", record.StatusApplied, record.PriorityLow, 9, false},
	{"Hooli", "Infrastructure Engineer", "Mountain View", record.StatusApplied, record.PriorityHigh, 12, false},
	{"Vandelay", "Software Engineer", "New York", record.StatusApplied, record.PriorityMedium, 20, false},
	{"Soylent", "Data Engineer", "Remote", record.StatusApplied, record.PriorityLow, 27, false},
	{"Stark Industries", "Systems Engineer", "Los Angeles", record.StatusApplied, record.PriorityMedium, 31, false},
	{"Wayne Enterprises", "Security Engineer", "Gotham", record.StatusOA, record.PriorityHigh, 14, false},
	{"Cyberdyne", "Distributed Systems Engineer", "Sunnyvale", record.StatusOA, record.PriorityMedium, 18, false},
	{"Tyrell", "Backend Engineer", "Remote", record.StatusInterview, record.PriorityHigh, 25, false},
	{"Aperture", "Tools Engineer", "Seattle", record.StatusInterview, record.PriorityMedium, 40, false},
	{"Oscorp", "API Engineer", "New York", record.StatusOffer, record.PriorityHigh, 45, false},
	{"Massive Dynamic", "Go Engineer", "Boston", record.StatusRejected, record.PriorityLow, 50, false},
	{"Dunder Mifflin", "Developer", "Scranton", record.StatusRejected, record.PriorityLow, 120, true},
}

// Demo returns a seeded board spread over every status, relative to now.
// IDs are stable ("demo-01" ...) so they can be typed on the command line.
func Demo(now time.Time) []record.Record {
	out := make([]record.Record, 0, len(demoApps))
	for i, d := range demoApps {
		r := record.Record{
			ID:       fmt.Sprintf("demo-%02d", i+1),
			Company:  d.company,
			Role:     d.role,
			Location: d.location,
			Status:   d.status,
			Priority: d.priority,
			Archived: d.archived,
		}
		if d.daysAgo >= 0 {
			applied := now.AddDate(0, 0, -d.daysAgo)
			r.DateApplied = &applied
			r.CreatedAt = applied
		} else {
			r.CreatedAt = now.AddDate(0, 0, -1)
		}
		r.UpdatedAt = r.CreatedAt
		out = append(out, r)
	}
	return out
}
