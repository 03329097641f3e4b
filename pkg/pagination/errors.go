package pagination

import "errors"

// Validation errors returned by State and ComputeWindow.
var (
	// ErrInvalidPageSize is returned when a page size outside AllowedPageSizes is requested.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidPageNumber is returned when a page number cannot be interpreted.
	ErrInvalidPageNumber = errors.New("invalid page number")

	// ErrInvalidTotal is returned when a data source reports a negative total.
	ErrInvalidTotal = errors.New("invalid total item count")

	// ErrInvalidWindow is returned when ComputeWindow receives inputs outside its contract.
	ErrInvalidWindow = errors.New("invalid window parameters")
)
