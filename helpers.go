package contactbook

import (
	"slices"
	"strings"
)

// PageBounds returns the [start, end) slice bounds of page pageNo within a
// sequence of total items. ok is false when the page is empty: a negative
// page, a non-positive page size, or a page past the end.
func PageBounds(total, pageNo, pageSize int) (start, end int, ok bool) {
	if pageNo < 0 || pageSize <= 0 || total <= 0 {
		return 0, 0, false
	}
	// Checked before multiplying so huge page numbers cannot overflow.
	if pageNo > total/pageSize {
		return 0, 0, false
	}

	start = pageNo * pageSize
	if start >= total {
		return 0, 0, false
	}
	end = min(start+pageSize, total)
	return start, end, true
}

// Paginate skips pageNo*pageSize items and takes the next pageSize.
// It always returns a non-nil slice.
func Paginate[T any](items []T, pageNo, pageSize int) []T {
	start, end, ok := PageBounds(len(items), pageNo, pageSize)
	if !ok {
		return []T{}
	}
	return slices.Clone(items[start:end])
}

// SortByName orders contacts ascending by name, in place
func SortByName(contacts []*Contact) {
	slices.SortFunc(contacts, func(a, b *Contact) int {
		return strings.Compare(a.Name, b.Name)
	})
}
