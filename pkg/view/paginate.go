package view

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items []T `json:"items"`
	// Number is the 1-based page actually returned after clamping, or 0 when
	// there are no items.
	Number     int `json:"number"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// HasPrev and HasNext report whether neighbouring pages exist.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Paginate returns page number of items in pages of size. Out-of-range page
// numbers are clamped into [1, TotalPages]. A size of zero or less yields a
// single page holding everything, as does any size of at least len(items).
func Paginate[T any](items []T, number, size int) Page[T] {
	total := len(items)
	if total == 0 {
		return Page[T]{Items: []T{}}
	}
	if size <= 0 {
		size = total
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	number = clamp(number, 1, pages)

	start := (number - 1) * size
	end := start + min(size, total-start)
	return Page[T]{
		Items:      items[start:end:end],
		Number:     number,
		TotalPages: pages,
		Total:      total,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
