package label

import (
	"regexp"
	"strings"
)

// HomeLabel is used for the site root, where no path segments exist.
const HomeLabel = "Home"

// Context carries everything label resolution may look at. Resolution is a
// pure function of this value: same Context, same label.
type Context struct {
	Heading  string   // trimmed on-page heading, "" when not yet available
	Pathname string   // normalized path
	Query    string   // raw query string
	Segments []string // path components, empty ones dropped
	URL      string   // canonical navigable target
}

// Func is a caller-supplied resolver override. Returning "" falls back to
// the default resolution.
type Func func(Context) string

// resourceIDRe matches a UUID v1-5, variant-1 shaped segment. Routes that
// carry one need a rendered heading to get a meaningful label.
var resourceIDRe = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

var wordStartRe = regexp.MustCompile(`\b\w`)

// IsResourceID reports whether a path segment looks like a dynamic
// resource identifier.
func IsResourceID(segment string) bool {
	return resourceIDRe.MatchString(segment)
}

// TitleCase turns a path segment into display form: "-" and "_" become
// spaces, then the first letter of every word is uppercased.
func TitleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return wordStartRe.ReplaceAllStringFunc(s, strings.ToUpper)
}

// Resolve produces a human-readable label for a visited location.
//
// Identifier-bearing routes prefer the on-page heading (the identifier
// itself would be noise); plain routes are labeled from their last two
// path segments.
func Resolve(ctx Context) string {
	if len(ctx.Segments) == 0 {
		return HomeLabel
	}

	hasResourceID := false
	for _, seg := range ctx.Segments {
		if IsResourceID(seg) {
			hasResourceID = true
			break
		}
	}

	if ctx.Heading != "" && hasResourceID {
		// The last segment is the identifier; its parent names the section.
		if len(ctx.Segments) >= 2 {
			parent := ctx.Segments[len(ctx.Segments)-2]
			return TitleCase(parent) + " / " + ctx.Heading
		}
		return ctx.Heading
	}

	if ctx.Heading != "" && strings.Contains(ctx.Query, "_id=") {
		parent := ctx.Segments[len(ctx.Segments)-1]
		if parent != "" {
			return TitleCase(parent) + " / " + ctx.Heading
		}
		return ctx.Heading
	}

	// Plain route: last two segments, title-cased.
	start := len(ctx.Segments) - 2
	if start < 0 {
		start = 0
	}
	parts := make([]string, 0, 2)
	for _, seg := range ctx.Segments[start:] {
		parts = append(parts, TitleCase(seg))
	}
	return strings.Join(parts, " / ")
}
