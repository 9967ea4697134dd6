package browser

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://docs.example.com", "https://docs.example.com"},
		{"http://docs.example.com", "http://docs.example.com"},
		{"docs.example.com", "https://docs.example.com"},
		{"  docs.example.com  ", "https://docs.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	base := "https://docs.example.com/guide/intro"

	tests := []struct {
		ref, want string
	}{
		{"/docs/api", "https://docs.example.com/docs/api"},
		{"sibling", "https://docs.example.com/guide/sibling"},
		{"https://other.example.com/x", "https://other.example.com/x"},
		{"?report_id=42", "https://docs.example.com/guide/intro?report_id=42"},
		{"", base},
	}
	for _, tt := range tests {
		if got := Resolve(base, tt.ref); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestSitePath(t *testing.T) {
	tests := []struct {
		url, wantPath, wantQuery string
	}{
		{"https://docs.example.com/docs/intro", "/docs/intro", ""},
		{"https://docs.example.com/reports?report_id=42", "/reports", "report_id=42"},
		{"https://docs.example.com", "/", ""},
	}
	for _, tt := range tests {
		path, query := SitePath(tt.url)
		if path != tt.wantPath || query != tt.wantQuery {
			t.Errorf("SitePath(%q) = %q, %q; want %q, %q", tt.url, path, query, tt.wantPath, tt.wantQuery)
		}
	}
}

func TestStackBackForward(t *testing.T) {
	s := NewStack(0)
	s.Push("/a")
	s.Push("/b")
	s.Push("/c")

	if url, ok := s.Back(); !ok || url != "/b" {
		t.Errorf("Back = %q, %v", url, ok)
	}
	if url, ok := s.Back(); !ok || url != "/a" {
		t.Errorf("Back = %q, %v", url, ok)
	}
	if _, ok := s.Back(); ok {
		t.Error("Back past the start should fail")
	}
	if url, ok := s.Forward(); !ok || url != "/b" {
		t.Errorf("Forward = %q, %v", url, ok)
	}

	// A push truncates forward entries.
	s.Push("/d")
	if s.CanGoForward() {
		t.Error("forward history should be gone after Push")
	}
	if got := s.Current(); got != "/d" {
		t.Errorf("Current = %q, want /d", got)
	}
}

func TestStackBounded(t *testing.T) {
	s := NewStack(2)
	s.Push("/a")
	s.Push("/b")
	s.Push("/c")

	if url, ok := s.Back(); !ok || url != "/b" {
		t.Errorf("Back = %q, %v; want /b", url, ok)
	}
	if s.CanGoBack() {
		t.Error("oldest entry should have been evicted")
	}
}
