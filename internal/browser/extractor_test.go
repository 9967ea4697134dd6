package browser

import "testing"

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"plain h1", `<html><body><h1>Jane Doe</h1></body></html>`, "Jane Doe"},
		{"whitespace trimmed", `<h1>
			Q3 Summary
		</h1>`, "Q3 Summary"},
		{"first of several", `<h1>First</h1><h1>Second</h1>`, "First"},
		{"nested markup", `<h1><span>Getting</span> Started</h1>`, "Getting Started"},
		{"no h1", `<h2>Subheading only</h2>`, ""},
		{"empty h1", `<h1>   </h1>`, ""},
		{"empty document", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstHeading(tt.html); got != tt.want {
				t.Errorf("FirstHeading = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractNonHTML(t *testing.T) {
	result := &FetchResult{
		URL:         "https://docs.example.com/spec.txt",
		FinalURL:    "https://docs.example.com/spec.txt",
		ContentType: "text/plain",
		Body:        []byte("plain content"),
	}

	article, err := Extract(result)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if article.TextContent != "plain content" {
		t.Errorf("TextContent = %q", article.TextContent)
	}
	if article.Heading != "" {
		t.Errorf("Heading = %q, want empty for non-HTML", article.Heading)
	}
}
