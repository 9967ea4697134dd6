package nav

import (
	"reflect"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		basePath string
		query    string
		wantKey  string
		wantSegs []string
	}{
		{"no base path", "/docs/intro", "", "", "/docs/intro", []string{"docs", "intro"}},
		{"strips base path", "/manual/docs/intro", "/manual", "", "/docs/intro", []string{"docs", "intro"}},
		{"exact base path is root", "/manual", "/manual", "", "/", nil},
		{"base path not a prefix", "/manuals/docs", "/manual", "", "/manuals/docs", []string{"manuals", "docs"}},
		{"query appended", "/reports", "", "report_id=42", "/reports?report_id=42", []string{"reports"}},
		{"empty query omitted", "/reports", "", "", "/reports", []string{"reports"}},
		{"root", "/", "", "", "/", nil},
		{"trailing slash", "/docs/", "", "", "/docs/", []string{"docs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Normalize(tt.path, tt.basePath, tt.query)
			if loc.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", loc.Key, tt.wantKey)
			}
			if loc.URL != loc.Key {
				t.Errorf("URL = %q, should equal Key %q", loc.URL, loc.Key)
			}
			if !reflect.DeepEqual(loc.Segments, tt.wantSegs) {
				t.Errorf("Segments = %v, want %v", loc.Segments, tt.wantSegs)
			}
		})
	}
}

func TestNormalizeQueryNotInSegments(t *testing.T) {
	loc := Normalize("/users/42", "", "tab=profile")
	if loc.Path != "/users/42" {
		t.Errorf("Path = %q, want /users/42", loc.Path)
	}
	if loc.Query != "tab=profile" {
		t.Errorf("Query = %q, want tab=profile", loc.Query)
	}
	if len(loc.Segments) != 2 {
		t.Errorf("Segments = %v, want 2 path components", loc.Segments)
	}
}

func TestIgnored(t *testing.T) {
	prefixes := []string{"/admin", "/internal"}

	tests := []struct {
		path string
		want bool
	}{
		{"/admin", true},
		{"/admin/settings", true},
		{"/administration", false},
		{"/internal/tools/x", true},
		{"/docs/intro", false},
		{"/", false},
	}

	for _, tt := range tests {
		if got := Ignored(tt.path, prefixes); got != tt.want {
			t.Errorf("Ignored(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIgnoredEmptyPrefixList(t *testing.T) {
	if Ignored("/docs", nil) {
		t.Error("no prefixes should ignore nothing")
	}
	if Ignored("/docs", []string{""}) {
		t.Error("empty prefix should be skipped, not match everything")
	}
}
