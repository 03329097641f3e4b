package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultMaxVisible is the number of contiguous page controls shown around the current page.
const DefaultMaxVisible = 5

// EllipsisLabel is how an ellipsis entry renders.
const EllipsisLabel = "..."

// Entry is one control in a page window: a page number or an ellipsis marker.
type Entry struct {
	Page     int
	Ellipsis bool
}

// PageEntry returns an entry for page n.
func PageEntry(n int) Entry { return Entry{Page: n} }

// EllipsisEntry returns an ellipsis marker.
func EllipsisEntry() Entry { return Entry{Ellipsis: true} }

// String renders the entry as its page number or EllipsisLabel.
func (e Entry) String() string {
	if e.Ellipsis {
		return EllipsisLabel
	}
	return strconv.Itoa(e.Page)
}

// MarshalJSON encodes a page as a number and an ellipsis as the string "...".
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Ellipsis {
		return json.Marshal(EllipsisLabel)
	}
	return json.Marshal(e.Page)
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != EllipsisLabel {
			return fmt.Errorf("unknown window entry %q", label)
		}
		*e = EllipsisEntry()
		return nil
	}

	var page int
	if err := json.Unmarshal(data, &page); err != nil {
		return fmt.Errorf("decode window entry: %w", err)
	}
	*e = PageEntry(page)
	return nil
}

// ComputeWindow returns the ordered page controls for currentPage out of totalPages.
//
// When every page fits in maxVisible the full range is returned. Otherwise a
// block of maxVisible pages is centered on currentPage, pushed inward at the
// edges, and the first and last pages are added with an ellipsis wherever a
// gap of more than one page remains. The result never exceeds maxVisible+4 entries.
func ComputeWindow(currentPage, totalPages, maxVisible int) ([]Entry, error) {
	if maxVisible < 1 {
		return nil, fmt.Errorf("%w: maxVisible %d < 1", ErrInvalidWindow, maxVisible)
	}
	if totalPages < 0 {
		return nil, fmt.Errorf("%w: totalPages %d < 0", ErrInvalidWindow, totalPages)
	}
	if totalPages > 0 && (currentPage < 1 || currentPage > totalPages) {
		return nil, fmt.Errorf("%w: currentPage %d outside [1, %d]", ErrInvalidWindow, currentPage, totalPages)
	}

	if totalPages <= maxVisible {
		entries := make([]Entry, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			entries = append(entries, PageEntry(p))
		}
		return entries, nil
	}

	start, end := blockBounds(currentPage, totalPages, maxVisible)

	entries := make([]Entry, 0, maxVisible+4)
	if start > 1 {
		entries = append(entries, PageEntry(1))
		if start > 2 {
			entries = append(entries, EllipsisEntry())
		}
	}

	for p := start; p <= end; p++ {
		entries = append(entries, PageEntry(p))
	}

	if end < totalPages {
		if end < totalPages-1 {
			entries = append(entries, EllipsisEntry())
		}
		entries = append(entries, PageEntry(totalPages))
	}

	return entries, nil
}

// blockBounds returns the contiguous block [start, end] of maxVisible pages.
// The high-edge clamp runs after the low-edge clamp and wins when both apply.
func blockBounds(currentPage, totalPages, maxVisible int) (start, end int) {
	half := maxVisible / 2
	start = currentPage - half
	end = start + maxVisible - 1

	if start <= 0 {
		start = 1
		end = maxVisible
	}

	if end > totalPages {
		end = totalPages
		start = totalPages - maxVisible + 1
	}

	return start, end
}
