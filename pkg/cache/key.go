package cache

import (
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key in Redis.
const KeyPrefix = "catalog"

// Key identifies a cached catalog response.
type Key struct {
	// Endpoint is the request path (e.g., "/products")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"limit": "5", "skip": "10"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: catalog:endpoint:query1=val1:query2=val2
//
// Example:
//
//	catalog:products:limit=5:select=title,price,rating:skip=10
func (k Key) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, key+"="+strings.Join(k.QueryParams[key], ","))
		}
	}

	return strings.Join(parts, ":")
}
