package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Article holds the extracted readable content from a doc page.
type Article struct {
	Title       string
	Heading     string // first top-level heading in the document, trimmed
	Byline      string
	Content     string // cleaned HTML
	TextContent string // plain text
	SiteName    string
	URL         string
	FinalURL    string
	FetchTime   time.Duration
}

// Link represents a hyperlink found in the page content.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Extract takes a FetchResult and extracts the readable article content.
// Non-HTML responses pass through as preformatted text.
func Extract(result *FetchResult) (*Article, error) {
	if !IsHTML(result.ContentType) {
		return &Article{
			Title:       result.FinalURL,
			Content:     "<pre>" + string(result.Body) + "</pre>",
			TextContent: string(result.Body),
			URL:         result.URL,
			FinalURL:    result.FinalURL,
			FetchTime:   result.Duration,
		}, nil
	}

	parsedURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(result.Body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	return &Article{
		Title:       article.Title,
		Heading:     FirstHeading(string(result.Body)),
		Byline:      article.Byline,
		Content:     article.Content,
		TextContent: article.TextContent,
		SiteName:    article.SiteName,
		URL:         result.URL,
		FinalURL:    result.FinalURL,
		FetchTime:   result.Duration,
	}, nil
}

// FirstHeading returns the trimmed text of the first h1 in the document,
// or "" when none exists or it is empty. This is what the trail's label
// refinement reads once a page has rendered.
func FirstHeading(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
