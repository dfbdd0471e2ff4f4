package view

import (
	"fmt"
	"time"

	"github.com/dkoosis/apptrack/pkg/record"
)

const statsWeeks = 12

// Summarize derives dashboard analytics from records the same way the server
// does: counts per status, conversion percentages over the pipeline, and
// applications per week for the twelve weeks starting on the Monday twelve
// weeks before now.
func Summarize(records []record.Record, now time.Time) record.Analytics {
	counts := make(map[string]int)
	for _, r := range records {
		counts[string(r.Status)]++
	}

	applied := counts[string(record.StatusApplied)] + counts[string(record.StatusOA)] +
		counts[string(record.StatusInterview)] + counts[string(record.StatusOffer)]
	interviews := counts[string(record.StatusInterview)] + counts[string(record.StatusOffer)]
	offers := counts[string(record.StatusOffer)]

	return record.Analytics{
		StatusCounts: counts,
		AppsPerWeek:  appsPerWeek(records, now),
		ConversionRates: record.ConversionRates{
			AppliedToInterview: percent(interviews, applied),
			InterviewToOffer:   percent(offers, interviews),
			AppliedToOffer:     percent(offers, applied),
		},
	}
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// WeekLabels returns the appsPerWeek keys in chronological order.
func WeekLabels(now time.Time) []string {
	labels := make([]string, 0, statsWeeks)
	start := weekStart(now)
	for i := 0; i < statsWeeks; i++ {
		labels = append(labels, weekLabel(start.AddDate(0, 0, 7*i)))
	}
	return labels
}

func appsPerWeek(records []record.Record, now time.Time) map[string]int {
	start := weekStart(now)
	out := make(map[string]int, statsWeeks)
	for i := 0; i < statsWeeks; i++ {
		from := start.AddDate(0, 0, 7*i)
		to := from.AddDate(0, 0, 7)
		n := 0
		for _, r := range records {
			if r.DateApplied != nil && !r.DateApplied.Before(from) && r.DateApplied.Before(to) {
				n++
			}
		}
		out[weekLabel(from)] = n
	}
	return out
}

// weekStart is the Monday on or before now minus twelve weeks, at midnight.
func weekStart(now time.Time) time.Time {
	d := now.AddDate(0, 0, -7*statsWeeks)
	offset := (int(d.Weekday()) + 6) % 7
	d = d.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func weekLabel(t time.Time) string {
	return fmt.Sprintf("Week of %02d/%02d", int(t.Month()), t.Day())
}
