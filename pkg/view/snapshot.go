package view

import (
	"github.com/Sternrassler/catalog-pager/pkg/catalog"
	"github.com/Sternrassler/catalog-pager/pkg/pagination"
)

// Snapshot is the read-only state of a ListView at one instant.
type Snapshot struct {
	Items       []catalog.Product  `json:"items"`
	CurrentPage int                `json:"currentPage"`
	PageSize    int                `json:"pageSize"`
	TotalItems  int                `json:"totalItems"`
	TotalPages  int                `json:"totalPages"`
	Window      []pagination.Entry `json:"window"`
	HasPrevious bool               `json:"hasPrevious"`
	HasNext     bool               `json:"hasNext"`
	PageSizes   []int              `json:"pageSizes"`
	Loading     bool               `json:"loading"`
	Error       string             `json:"error,omitempty"`
}

// PreviousDisabled reports whether the Previous control is inactive.
func (s Snapshot) PreviousDisabled() bool { return !s.HasPrevious }

// NextDisabled reports whether the Next control is inactive.
func (s Snapshot) NextDisabled() bool { return !s.HasNext }
