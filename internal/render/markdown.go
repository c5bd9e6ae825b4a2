// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts post and use case markdown content to
// sanitized HTML for API consumers that ask for rendered output.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements from rendered markdown.
// Content is author-supplied through the admin area, but sanitizing on
// output keeps a compromised admin account from turning into stored
// XSS on the public site.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts markdown content to sanitized HTML.
func Markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
