package view

import (
	"maps"
	"math"

	"github.com/dkoosis/apptrack/pkg/record"
)

// DefaultRevealWindow is how many cards a board column shows before
// "load more".
const DefaultRevealWindow = 5

// Reveal tracks per-column visible counts on the board. Counts start at the
// window and only grow. Reveal is a value type; methods that change it return
// a new Reveal so earlier copies are unaffected.
type Reveal struct {
	window int
	counts map[record.Status]int
}

// NewReveal returns a Reveal with every column at window.
func NewReveal(window int) Reveal {
	if window <= 0 {
		window = DefaultRevealWindow
	}
	return Reveal{window: window}
}

// Window is the initial count and the increment.
func (r Reveal) Window() int {
	if r.window <= 0 {
		return DefaultRevealWindow
	}
	return r.window
}

// Visible is the current count for column s.
func (r Reveal) Visible(s record.Status) int {
	if n, ok := r.counts[s]; ok {
		return n
	}
	return r.Window()
}

// More grows column s by one window. Other columns keep their counts.
func (r Reveal) More(s record.Status) Reveal {
	next := Reveal{window: r.window, counts: maps.Clone(r.counts)}
	if next.counts == nil {
		next.counts = make(map[record.Status]int)
	}
	n, w := r.Visible(s), r.Window()
	if n > math.MaxInt-w {
		next.counts[s] = math.MaxInt
	} else {
		next.counts[s] = n + w
	}
	return next
}

// Slice returns the visible prefix of items for column s and how many remain
// hidden.
func (r Reveal) Slice(s record.Status, items []record.Record) (visible []record.Record, remaining int) {
	n := r.Visible(s)
	if n >= len(items) {
		return items, 0
	}
	return items[:n:n], len(items) - n
}
