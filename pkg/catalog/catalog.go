// Package catalog defines the product model and the data source contract
// the listing view pages through.
package catalog

import "context"

// Product is a single catalog item as returned by the remote source.
type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Rating float64 `json:"rating"`
}

// Page is one offset/limit window of the catalog together with the
// total number of items the source holds.
type Page struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

// DataSource fetches a sub-range of the catalog.
// Offset is a zero-based skip count, limit is the page size.
type DataSource interface {
	FetchPage(ctx context.Context, offset, limit int) (Page, error)
}

// DataSourceFunc adapts a plain function to the DataSource interface.
type DataSourceFunc func(ctx context.Context, offset, limit int) (Page, error)

// FetchPage calls f(ctx, offset, limit).
func (f DataSourceFunc) FetchPage(ctx context.Context, offset, limit int) (Page, error) {
	return f(ctx, offset, limit)
}
