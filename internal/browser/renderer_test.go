package browser

import "testing"

func TestRenderBasicHTML(t *testing.T) {
	article := &Article{
		Title: "Getting Started",
		Content: `<h1>Getting Started</h1>
<p>Hello world. This is a <strong>bold</strong> and <em>italic</em> test.</p>
<p>Read the <a href="/docs/api">API reference</a> or the <a href="/docs/faq">FAQ</a>.</p>
<ul>
<li>Item one</li>
<li>Item two</li>
</ul>
<pre><code>go run .</code></pre>
<blockquote>A quote</blockquote>`,
		TextContent: "fallback text",
	}

	page := Render(article, 80)

	if len(page.Links) != 2 {
		t.Errorf("Expected 2 links, got %d", len(page.Links))
	}
	if len(page.Links) == 2 {
		if page.Links[0].URL != "/docs/api" || page.Links[0].Index != 1 {
			t.Errorf("link 1 = %+v", page.Links[0])
		}
		if page.Links[1].URL != "/docs/faq" || page.Links[1].Index != 2 {
			t.Errorf("link 2 = %+v", page.Links[1])
		}
	}
	if page.Content == "" {
		t.Error("Content should not be empty")
	}
	if page.Title != "Getting Started" {
		t.Errorf("Expected title 'Getting Started', got '%s'", page.Title)
	}
}

func TestRenderEmptyArticle(t *testing.T) {
	article := &Article{
		Title:       "",
		Content:     "",
		TextContent: "some text",
	}

	page := Render(article, 80)
	if page == nil {
		t.Error("Page should not be nil")
	}
}

func TestRenderWithTable(t *testing.T) {
	article := &Article{
		Title: "Config Reference",
		Content: `<table>
<tr><th>Option</th><th>Default</th></tr>
<tr><td>max_history</td><td>50</td></tr>
</table>`,
		TextContent: "table text",
	}

	page := Render(article, 80)
	if page.Content == "" {
		t.Error("Content should not be empty")
	}
}

func TestRenderSkipsJavascriptLinks(t *testing.T) {
	article := &Article{
		Title:       "Page",
		Content:     `<p><a href="javascript:void(0)">click</a> and <a href="/real">real</a></p>`,
		TextContent: "t",
	}

	page := Render(article, 80)
	if len(page.Links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(page.Links))
	}
	if page.Links[0].URL != "/real" {
		t.Errorf("link = %+v", page.Links[0])
	}
}
