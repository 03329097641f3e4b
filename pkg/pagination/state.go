package pagination

import (
	"fmt"
	"slices"
)

// Defaults applied by NewState.
const (
	DefaultPageSize = 5
	FirstPage       = 1
)

// AllowedPageSizes is the fixed set of selectable page sizes, in display order.
var AllowedPageSizes = []int{5, 10, 20, 30}

// IsAllowedPageSize reports whether size is one of AllowedPageSizes.
func IsAllowedPageSize(size int) bool {
	return slices.Contains(AllowedPageSizes, size)
}

// PageSizeOptions returns a copy of AllowedPageSizes safe for callers to modify.
func PageSizeOptions() []int {
	return slices.Clone(AllowedPageSizes)
}

// Query is the offset/limit pair derived from a State.
type Query struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// State holds the current page, the page size and the last known total.
//
// It is not safe for concurrent use; the component driving pagination owns it.
// After every transition 1 <= CurrentPage() <= max(TotalPages(), 1) holds.
type State struct {
	pageSize    int
	currentPage int
	totalItems  int
}

// NewState returns a State on page 1 with DefaultPageSize and no items.
func NewState() *State {
	return &State{
		pageSize:    DefaultPageSize,
		currentPage: FirstPage,
	}
}

// NewStateWithPageSize returns a State on page 1 using the given page size.
func NewStateWithPageSize(size int) (*State, error) {
	s := NewState()
	if _, err := s.SetPageSize(size); err != nil {
		return nil, err
	}
	return s, nil
}

// PageSize returns the current page size.
func (s *State) PageSize() int { return s.pageSize }

// CurrentPage returns the 1-based current page.
func (s *State) CurrentPage() int { return s.currentPage }

// TotalItems returns the total reported by the last applied fetch.
func (s *State) TotalItems() int { return s.totalItems }

// Offset returns the zero-based skip count for the current page.
func (s *State) Offset() int {
	return (s.currentPage - 1) * s.pageSize
}

// Limit returns the number of items requested per page.
func (s *State) Limit() int { return s.pageSize }

// Query returns the offset/limit pair for the current page.
func (s *State) Query() Query {
	return Query{Offset: s.Offset(), Limit: s.Limit()}
}

// TotalPages returns ceil(totalItems / pageSize), 0 when there are no items.
func (s *State) TotalPages() int {
	return TotalPages(s.totalItems, s.pageSize)
}

// LastPage returns the highest page the current page may take, max(TotalPages(), 1).
func (s *State) LastPage() int {
	return max(s.TotalPages(), FirstPage)
}

// HasPrevious reports whether a previous page exists.
func (s *State) HasPrevious() bool {
	return s.currentPage > FirstPage
}

// HasNext reports whether a next page exists.
func (s *State) HasNext() bool {
	return s.currentPage < s.TotalPages()
}

// SetPageSize switches to the given page size and resets to the first page.
// The returned flag reports whether the derived query changed.
func (s *State) SetPageSize(size int) (bool, error) {
	if !IsAllowedPageSize(size) {
		return false, fmt.Errorf("%w: %d (allowed %v)", ErrInvalidPageSize, size, AllowedPageSizes)
	}

	before := s.Query()
	s.pageSize = size
	s.currentPage = FirstPage
	return s.Query() != before, nil
}

// GoToPage moves to page n, clamped into [1, LastPage()].
// The returned flag reports whether the derived query changed.
func (s *State) GoToPage(n int) bool {
	before := s.Query()
	s.currentPage = s.clamp(n)
	return s.Query() != before
}

// ApplyFetchResult records the total reported by the data source and
// re-clamps the current page when the total shrank. It never triggers a fetch;
// the returned flag reports whether clamping changed the derived query.
func (s *State) ApplyFetchResult(total int) (bool, error) {
	if total < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidTotal, total)
	}

	before := s.Query()
	s.totalItems = total
	s.currentPage = s.clamp(s.currentPage)
	return s.Query() != before, nil
}

func (s *State) clamp(n int) int {
	return min(max(n, FirstPage), s.LastPage())
}

// TotalPages returns ceil(totalItems / pageSize). A non-positive page size yields 0.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
