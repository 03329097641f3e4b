package cache

import (
	"fmt"
	"net/http"
	"time"
)

// Entry is one cached catalog page response.
type Entry struct {
	Data         []byte      `json:"data"`
	ETag         string      `json:"etag"`
	Expires      time.Time   `json:"expires"`
	LastModified time.Time   `json:"last_modified"`
	StatusCode   int         `json:"status_code"`
	Headers      http.Header `json:"headers"`
	CachedAt     time.Time   `json:"cached_at"`
}

// Validate reports ErrInvalidEntry for anything that is not a 200 page
// with a body. Only such pages are ever replayed to the view.
func (e *Entry) Validate() error {
	if e.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrInvalidEntry, e.StatusCode)
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidEntry)
	}
	return nil
}

// IsExpired reports whether the page is past its Expires time.
func (e *Entry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL returns the time until expiration, 0 once expired.
func (e *Entry) TTL() time.Duration {
	return max(time.Until(e.Expires), 0)
}

// Age returns how long ago the page was cached.
func (e *Entry) Age() time.Duration {
	if e.CachedAt.IsZero() {
		return 0
	}
	return time.Since(e.CachedAt)
}

// Revalidatable reports whether the catalog can answer a conditional
// request for this page with 304.
func (e *Entry) Revalidatable() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}
