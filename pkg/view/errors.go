package view

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed matches every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrTotalChanged reports a total that kept shrinking across the
	// follow-up fetch, so the loaded items may not match the current page.
	ErrTotalChanged = errors.New("total changed while loading")

	// ErrStaleResponse marks a response superseded by a newer fetch.
	// It never leaves the package.
	ErrStaleResponse = errors.New("stale response")
)

// FetchError reports a failed page fetch. The view keeps showing the
// previous items while it is set.
type FetchError struct {
	Offset int
	Limit  int
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch offset=%d limit=%d: %v", e.Offset, e.Limit, e.Err)
}

// Unwrap returns the data source error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
