package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
)

// Cached glamour renderer to avoid recreation on every render call.
var (
	rendererMu          sync.Mutex
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
)

// RenderedPage is terminal-ready page content with its numbered links.
type RenderedPage struct {
	Title   string
	Heading string
	Content string
	Links   []Link
}

// Render converts an Article into styled terminal output. Links in the
// content are numbered for follow mode.
func Render(article *Article, width int) *RenderedPage {
	if width <= 0 {
		width = 80
	}

	// Constrain content width for readability.
	contentWidth := width - 4
	if contentWidth > 100 {
		contentWidth = 100
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return &RenderedPage{
			Title:   article.Title,
			Heading: article.Heading,
			Content: article.TextContent,
		}
	}

	conv := &mdConverter{}

	var md strings.Builder
	if article.Title != "" {
		md.WriteString("# " + article.Title + "\n\n")
	}
	if article.Byline != "" {
		md.WriteString("*" + article.Byline + "*\n\n")
	}
	md.WriteString("---\n\n")

	doc.Find("body").Children().Each(func(i int, s *goquery.Selection) {
		md.WriteString(conv.block(s, 0))
	})

	rendered, glamErr := renderWithGlamour(md.String(), contentWidth)
	if glamErr != nil {
		// Fallback: show the raw markdown.
		rendered = md.String()
	}

	return &RenderedPage{
		Title:   article.Title,
		Heading: article.Heading,
		Content: rendered,
		Links:   conv.links,
	}
}

// renderWithGlamour renders markdown into styled terminal output, reusing
// the renderer unless the width changed.
func renderWithGlamour(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if cachedRenderer == nil || cachedRendererWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer = renderer
		cachedRendererWidth = width
	}

	return cachedRenderer.Render(markdown)
}

// mdConverter walks goquery HTML nodes and emits markdown, numbering links
// as it goes.
type mdConverter struct {
	links []Link
}

func (c *mdConverter) block(s *goquery.Selection, depth int) string {
	switch goquery.NodeName(s) {
	case "h1":
		return "# " + c.inline(s) + "\n\n"
	case "h2":
		return "## " + c.inline(s) + "\n\n"
	case "h3":
		return "### " + c.inline(s) + "\n\n"
	case "h4", "h5", "h6":
		return "#### " + c.inline(s) + "\n\n"
	case "p":
		text := c.inline(s)
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return text + "\n\n"
	case "pre":
		return "```\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n"
	case "blockquote":
		var quoted []string
		for _, line := range strings.Split(strings.TrimSpace(c.inline(s)), "\n") {
			quoted = append(quoted, "> "+line)
		}
		return strings.Join(quoted, "\n") + "\n\n"
	case "ul", "ol":
		return c.list(s, goquery.NodeName(s) == "ol", depth) + "\n"
	case "table":
		return c.table(s)
	case "hr":
		return "---\n\n"
	case "div", "section", "article", "main", "header", "footer", "nav", "aside", "figure":
		var sb strings.Builder
		s.Children().Each(func(i int, child *goquery.Selection) {
			sb.WriteString(c.block(child, depth))
		})
		if sb.Len() == 0 {
			// Leaf container with bare text.
			if text := c.inline(s); strings.TrimSpace(text) != "" {
				return text + "\n\n"
			}
		}
		return sb.String()
	case "img":
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			return "*[image: " + alt + "]*\n\n"
		}
		return ""
	default:
		if text := c.inline(s); strings.TrimSpace(text) != "" {
			return text + "\n\n"
		}
		return ""
	}
}

func (c *mdConverter) list(s *goquery.Selection, ordered bool, depth int) string {
	var sb strings.Builder
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}
		sb.WriteString(indent + marker + " " + strings.TrimSpace(c.inline(li)) + "\n")
		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			sb.WriteString(c.list(nested, goquery.NodeName(nested) == "ol", depth+1))
		})
	})
	return sb.String()
}

func (c *mdConverter) table(s *goquery.Selection) string {
	var sb strings.Builder
	rows := s.Find("tr")
	rows.Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(c.inline(cell)))
		})
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			sb.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
		}
	})
	sb.WriteString("\n")
	return sb.String()
}

// inline flattens a node to markdown text, numbering anchors.
func (c *mdConverter) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(i int, n *goquery.Selection) {
		switch goquery.NodeName(n) {
		case "#text":
			sb.WriteString(collapseSpace(n.Text()))
		case "a":
			text := strings.TrimSpace(n.Text())
			href, _ := n.Attr("href")
			if text == "" || href == "" || strings.HasPrefix(href, "javascript:") {
				sb.WriteString(text)
				return
			}
			idx := len(c.links) + 1
			c.links = append(c.links, Link{Index: idx, Text: text, URL: href})
			sb.WriteString(fmt.Sprintf("%s[%d]", text, idx))
		case "strong", "b":
			sb.WriteString("**" + strings.TrimSpace(n.Text()) + "**")
		case "em", "i":
			sb.WriteString("*" + strings.TrimSpace(n.Text()) + "*")
		case "code":
			sb.WriteString("`" + n.Text() + "`")
		case "br":
			sb.WriteString("\n")
		default:
			sb.WriteString(c.inline(n))
		}
	})
	return sb.String()
}

// collapseSpace squeezes runs of whitespace into single spaces, keeping
// leading/trailing single spaces so inline joins stay readable.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
