package util

import "math"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Calculate turns a 1-based page and a size into an offset and a limit.
// The offset saturates so that from+limit never overflows int.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	if page-1 > (math.MaxInt-size)/size {
		return math.MaxInt - size, size
	}
	from = (page - 1) * size
	return from, size
}

// Page returns the slice of items for page/size.
func Page[T any](items []T, page, size int) []T {
	from, limit := Calculate(page, size)
	if from < 0 || from >= len(items) {
		return []T{}
	}
	to := from + limit
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
