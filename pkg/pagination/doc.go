// Package pagination implements the page arithmetic behind the catalog
// listing view.
//
// State translates a logical page number and page size into the offset and
// limit sent to the data source, and keeps the current page inside the
// range the last known total allows. ComputeWindow derives the bounded set
// of page-number controls shown to the user.
//
// Example usage:
//
//	state := pagination.NewState()
//	if _, err := state.SetPageSize(10); err != nil {
//		return err
//	}
//	q := state.Query() // {Offset: 0, Limit: 10}
//	page, err := source.FetchPage(ctx, q.Offset, q.Limit)
//	if err != nil {
//		return err
//	}
//	clamped, err := state.ApplyFetchResult(page.Total)
//	if err != nil {
//		return err
//	}
//	if clamped {
//		// the current page moved; fetch state.Query() again
//	}
//	entries, err := pagination.ComputeWindow(state.CurrentPage(), state.TotalPages(), 5)
//	if err != nil {
//		return err
//	}
//
// A window for page 1 of 10 with five visible pages looks like:
//
//	1 2 3 4 5 ... 10
//
// The window:
//   - Lists every page when they all fit
//   - Centers a block of maxVisible pages on the current page otherwise
//   - Always offers the first and last page
//   - Marks genuine gaps (more than one skipped page) with an ellipsis
package pagination
