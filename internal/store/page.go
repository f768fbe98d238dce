package store

import (
	"github.com/heysubinoy/pyazdict/pkg/kv"
)

// Paginate returns the 1-indexed page of entries holding at most size
// entries. An empty list has no pages, so every page is out of range.
func Paginate(entries []kv.Entry, page, size int) (kv.Page, error) {
	if size < 1 {
		return kv.Page{}, kv.InvalidArgument("page", "page size must be positive")
	}

	total := (len(entries) + size - 1) / size
	if page < 1 || page > total {
		return kv.Page{Total: total}, kv.NotFound("page", "page not found")
	}

	start := (page - 1) * size
	end := min(start+size, len(entries))

	return kv.Page{
		Number:  page,
		Total:   total,
		Entries: entries[start:end],
	}, nil
}
