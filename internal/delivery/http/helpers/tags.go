package helpers

import (
	"net/http"
	"strings"
)

// ParseTagFilter collects the repeated "tags" query parameters into a set of distinct
// tag names. Duplicates collapse, blanks are dropped, matching is case-sensitive.
// An empty result means no tag filtering.
func ParseTagFilter(r *http.Request) []string {
	values := r.URL.Query()["tags"]
	seen := make(map[string]struct{}, len(values))
	names := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		names = append(names, v)
	}
	return names
}

// HasUpcomingFlag reports whether the request asks for upcoming events only.
// The bare presence of the "upcoming" query key enables the filter.
func HasUpcomingFlag(r *http.Request) bool {
	return r.URL.Query().Has("upcoming")
}
