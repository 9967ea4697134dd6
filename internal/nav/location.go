package nav

import "strings"

// Location is the canonical identity of a visited place inside a doc site.
type Location struct {
	Key      string   // normalized path plus non-empty query, unique per entry
	URL      string   // the navigable target (same as Key)
	Path     string   // normalized path, without query
	Query    string   // raw query string, no leading "?"
	Segments []string // path components, empty ones dropped
}

// Normalize turns a raw path, an optional site base path and a query string
// into a stable Location. It never fails; any input produces a value.
func Normalize(path, basePath, query string) Location {
	p := path
	if basePath != "" {
		switch {
		case p == basePath:
			p = "/"
		case strings.HasPrefix(p, basePath+"/"):
			p = strings.TrimPrefix(p, basePath)
		}
	}

	key := p
	if query != "" {
		key += "?" + query
	}

	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	return Location{
		Key:      key,
		URL:      key,
		Path:     p,
		Query:    query,
		Segments: segments,
	}
}

// Ignored reports whether the normalized path equals or is nested under any
// of the given path prefixes.
func Ignored(path string, prefixes []string) bool {
	for _, pre := range prefixes {
		if pre == "" {
			continue
		}
		if path == pre || strings.HasPrefix(path, pre+"/") {
			return true
		}
	}
	return false
}
