// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// UseCase statuses
const (
	UseCaseStatusDraft     = "draft"
	UseCaseStatusPublished = "published"
)

// UseCase represents a published case study. Two historical data shapes
// exist: an older single-valued industry/category and the current
// array-valued one. The arrays are canonical; the single-valued fields
// are a derived view kept in sync for older readers.
type UseCase struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Industries  []string  `json:"industries"`
	Industry    string    `json:"industry"`
	Categories  []string  `json:"categories"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize reconciles the array-valued and legacy single-valued
// industry/category fields. Arrays win when present; otherwise a legacy
// value is promoted into a one-element array. After normalization the
// legacy fields always mirror element zero of the arrays.
func (u *UseCase) Normalize() {
	u.Industries, u.Industry = reconcile(u.Industries, u.Industry)
	u.Categories, u.Category = reconcile(u.Categories, u.Category)
}

func reconcile(values []string, legacy string) ([]string, string) {
	if len(values) == 0 && legacy != "" {
		values = []string{legacy}
	}
	if len(values) > 0 {
		legacy = values[0]
	}
	return values, legacy
}

// UseCaseForm carries the fields needed to create a use case. Either the
// array fields or the legacy single-valued fields may be supplied.
type UseCaseForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Industries  []string `json:"industries"`
	Industry    string   `json:"industry"`
	Categories  []string `json:"categories"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"imageUrl"`
	Status      string   `json:"status"`
}

// NormalizedIndustries returns the canonical industry list for the form.
func (f UseCaseForm) NormalizedIndustries() []string {
	v, _ := reconcile(f.Industries, f.Industry)
	return v
}

// NormalizedCategories returns the canonical category list for the form.
func (f UseCaseForm) NormalizedCategories() []string {
	v, _ := reconcile(f.Categories, f.Category)
	return v
}

// UseCasePatch carries a partial update; nil fields are left unchanged.
type UseCasePatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Industries  *[]string `json:"industries,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
	Category    *string   `json:"category,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Status      *string   `json:"status,omitempty"`
}
