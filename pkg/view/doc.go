// Package view derives what the list and board screens display from a
// snapshot of the record store.
//
// Everything here is a pure function of its inputs (Filter, Partition, Group,
// Paginate, Summarize) or a small value-type state holder (List, Board,
// Reveal) whose derivation methods are pure given a snapshot. Nothing in this
// package performs I/O or returns an error: malformed input, such as an
// unrecognized status, degrades to a visible result instead.
package view
