package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix starts every cache key.
const KeyPrefix = "spess:cache"

// Key identifies a cached response.
type Key struct {
	// Path is the API path without the base URL (e.g., "/systems/X1-DF55")
	Path string

	// Query are the query parameters (e.g., {"page": "2"})
	Query url.Values

	// Scope separates otherwise equal requests, e.g. by server reset date
	Scope string
}

// String generates a deterministic cache key string.
// Format: spess:cache:path:query1=val1:query2=val2:scope=xyz
//
// Example:
//
//	spess:cache:systems/X1-DF55/waypoints:limit=20:page=1:scope=2026-10-04
func (k Key) String() string {
	parts := []string{KeyPrefix}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		names := make([]string, 0, len(k.Query))
		for name := range k.Query {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := append([]string(nil), k.Query[name]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(values, ",")))
		}
	}

	if k.Scope != "" {
		parts = append(parts, "scope="+k.Scope)
	}

	return strings.Join(parts, ":")
}
