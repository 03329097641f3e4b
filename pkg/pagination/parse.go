package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePageNumber parses user input naming a page. Any integer is accepted;
// range clamping happens in State.GoToPage.
func ParsePageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageNumber, s)
	}
	return n, nil
}

// ParsePageSize parses user input naming a page size and checks it against
// AllowedPageSizes.
func ParsePageSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !IsAllowedPageSize(n) {
		return 0, fmt.Errorf("%w: %q (allowed %v)", ErrInvalidPageSize, s, AllowedPageSizes)
	}
	return n, nil
}
