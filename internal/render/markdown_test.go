package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Markdown error: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("missing heading in output: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("missing bold in output: %s", html)
	}
}

func TestMarkdownSanitizesScript(t *testing.T) {
	html, err := Markdown("Hello <script>alert('x')</script> world")
	if err != nil {
		t.Fatalf("Markdown error: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script element survived sanitization: %s", html)
	}
}
