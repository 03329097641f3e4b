// Package render draws a view.Snapshot as plain text: a product table,
// the pagination bar and the page-size selector.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Sternrassler/catalog-pager/pkg/catalog"
	"github.com/Sternrassler/catalog-pager/pkg/view"
)

// Control labels.
const (
	PrevLabel = "« Prev"
	NextLabel = "Next »"
)

// Snapshot writes the full listing: table, pagination bar, size selector,
// then a status line when loading or after a failed fetch.
func Snapshot(w io.Writer, snap view.Snapshot) error {
	if err := Table(w, snap.Items); err != nil {
		return err
	}

	lines := []string{
		"",
		PaginationBar(snap),
		PageSizes(snap),
	}
	if snap.Loading {
		lines = append(lines, "Loading...")
	}
	if snap.Error != "" {
		lines = append(lines, "Error: "+snap.Error+" (r to retry)")
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// Table writes items as aligned columns.
func Table(w io.Writer, items []catalog.Product) error {
	if len(items) == 0 {
		_, err := io.WriteString(w, "No products.\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING")
	for _, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\n", p.ID, p.Title, p.Price, p.Rating)
	}
	return tw.Flush()
}

// PaginationBar renders e.g. "« Prev  1 [2] 3 ... 10  Next »".
// Disabled controls are wrapped in parentheses.
func PaginationBar(snap view.Snapshot) string {
	prev := control(PrevLabel, snap.PreviousDisabled())
	next := control(NextLabel, snap.NextDisabled())

	pages := make([]string, 0, len(snap.Window))
	for _, entry := range snap.Window {
		if !entry.Ellipsis && entry.Page == snap.CurrentPage {
			pages = append(pages, "["+strconv.Itoa(entry.Page)+"]")
			continue
		}
		pages = append(pages, entry.String())
	}

	parts := []string{prev}
	if len(pages) > 0 {
		parts = append(parts, strings.Join(pages, " "))
	}
	parts = append(parts, next)
	return strings.Join(parts, "  ")
}

// PageSizes renders the size selector with the current size bracketed.
func PageSizes(snap view.Snapshot) string {
	options := make([]string, 0, len(snap.PageSizes))
	for _, size := range snap.PageSizes {
		if size == snap.PageSize {
			options = append(options, "["+strconv.Itoa(size)+"]")
			continue
		}
		options = append(options, strconv.Itoa(size))
	}
	return "Page size: " + strings.Join(options, " ")
}

func control(label string, disabled bool) string {
	if disabled {
		return "(" + label + ")"
	}
	return label
}
