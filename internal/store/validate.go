// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"strings"

	"github.com/futurnod/siteapi/internal/model"
)

// ValidatePostForm checks the required fields of a post creation form.
// It runs before any backend I/O.
func ValidatePostForm(form model.PostForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return Validationf("title", "Title is required")
	}
	if strings.TrimSpace(form.Excerpt) == "" {
		return Validationf("excerpt", "Excerpt is required")
	}
	if strings.TrimSpace(form.Content) == "" {
		return Validationf("content", "Content is required")
	}
	if form.CategoryID == "" {
		return Validationf("categoryId", "Category is required")
	}
	return nil
}

// ValidatePostPatch rejects supplied-but-blank required fields.
func ValidatePostPatch(patch model.PostPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Validationf("title", "Title is required")
	}
	if patch.Excerpt != nil && strings.TrimSpace(*patch.Excerpt) == "" {
		return Validationf("excerpt", "Excerpt is required")
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return Validationf("content", "Content is required")
	}
	if patch.CategoryID != nil && *patch.CategoryID == "" {
		return Validationf("categoryId", "Category is required")
	}
	return nil
}

// ValidateUseCaseForm checks the required fields of a use case form.
func ValidateUseCaseForm(form model.UseCaseForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return Validationf("title", "Title is required")
	}
	if strings.TrimSpace(form.Description) == "" {
		return Validationf("description", "Description is required")
	}
	if strings.TrimSpace(form.Content) == "" {
		return Validationf("content", "Content is required")
	}
	if len(form.NormalizedIndustries()) == 0 {
		return Validationf("industry", "Industry is required")
	}
	if len(form.NormalizedCategories()) == 0 {
		return Validationf("category", "Category is required")
	}
	return nil
}

// ValidateTaxonomyForm checks a category or tag form.
func ValidateTaxonomyForm(form model.TaxonomyForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return Validationf("name", "Name is required")
	}
	return nil
}

// ValidateAdminUserForm checks an admin user creation form.
func ValidateAdminUserForm(form model.AdminUserForm) error {
	if strings.TrimSpace(form.Username) == "" {
		return Validationf("username", "Username is required")
	}
	if form.Password == "" {
		return Validationf("password", "Password is required")
	}
	if form.Role != model.RoleAdmin && form.Role != model.RoleUser {
		return Validationf("role", "Role must be admin or user")
	}
	return nil
}
