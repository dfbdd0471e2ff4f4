package view

import "github.com/dkoosis/apptrack/pkg/record"

// Partition buckets records by status. Every status in statuses is a key,
// with an empty non-nil slice when nothing matches. Records whose status is
// not listed are left out; the board only shows its fixed workflow.
func Partition(records []record.Record, statuses []record.Status) map[record.Status][]record.Record {
	buckets := make(map[record.Status][]record.Record, len(statuses))
	for _, s := range statuses {
		buckets[s] = []record.Record{}
	}
	for _, r := range records {
		if b, ok := buckets[r.Status]; ok {
			buckets[r.Status] = append(b, r)
		}
	}
	return buckets
}

// Group buckets every record, unknown statuses included. Order lists the
// known stages that occur, in board order, followed by unknown values in
// order of first appearance.
func Group(records []record.Record) (order []record.Status, groups map[record.Status][]record.Record) {
	groups = make(map[record.Status][]record.Record)
	var unknown []record.Status
	for _, r := range records {
		if _, seen := groups[r.Status]; !seen && !r.Status.Known() {
			unknown = append(unknown, r.Status)
		}
		groups[r.Status] = append(groups[r.Status], r)
	}
	for _, s := range record.Statuses {
		if _, ok := groups[s]; ok {
			order = append(order, s)
		}
	}
	return append(order, unknown...), groups
}
