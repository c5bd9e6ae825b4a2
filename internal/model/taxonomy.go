// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Category represents a blog category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Tag represents a blog tag.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TaxonomyForm carries the fields needed to create a category or tag.
type TaxonomyForm struct {
	Name string `json:"name"`
}

func toLower(s string) string { return strings.ToLower(s) }

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

func tagNameMatches(tags []Tag, lowerTerm string) bool {
	for _, t := range tags {
		if containsFold(t.Name, lowerTerm) {
			return true
		}
	}
	return false
}
