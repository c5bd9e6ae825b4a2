// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store defines the repository interfaces shared by the two
// persistence backends: the remote relational store used when the
// connection secrets are configured, and the local key-value fallback
// used otherwise. Exactly one backend is active at a time; the choice
// is made once at startup and injected into callers.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/futurnod/siteapi/internal/model"
)

// ErrNotFound is returned for id-keyed operations on absent records.
var ErrNotFound = errors.New("not found")

// ValidationError reports a required-field or shape violation. It is
// always raised before any backend mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Failf wraps a backend error as a generic operation failure. The
// structured cause is reduced to its message string; sentinel and
// validation errors pass through untouched so callers can still map
// them to responses.
func Failf(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || IsValidation(err) {
		return err
	}
	return fmt.Errorf("failed to %s: %s", op, err)
}

// Posts is the blog post repository.
type Posts interface {
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	Create(ctx context.Context, form model.PostForm) (*model.Post, error)
	Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// Taxonomy is the category and tag repository.
type Taxonomy interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, form model.TaxonomyForm) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, form model.TaxonomyForm) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id string) (*model.Tag, error)
	CreateTag(ctx context.Context, form model.TaxonomyForm) (*model.Tag, error)
	UpdateTag(ctx context.Context, id string, form model.TaxonomyForm) (*model.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

// UseCases is the case-study repository. Lists are ordered
// newest-created-first in both backends.
type UseCases interface {
	List(ctx context.Context) ([]model.UseCase, error)
	GetByID(ctx context.Context, id string) (*model.UseCase, error)
	Create(ctx context.Context, form model.UseCaseForm) (*model.UseCase, error)
	Update(ctx context.Context, id string, patch model.UseCasePatch) (*model.UseCase, error)
	Delete(ctx context.Context, id string) error
}

// Contacts is the contact submission repository.
type Contacts interface {
	List(ctx context.Context) ([]model.ContactSubmission, error)
	Create(ctx context.Context, form model.ContactForm) (*model.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// Users is the admin user repository. PasswordHash is set by the caller;
// the store never sees a cleartext credential.
type Users interface {
	List(ctx context.Context) ([]model.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	Create(ctx context.Context, user model.AdminUser) (*model.AdminUser, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles one repository per entity, all backed by the same store.
type Stores struct {
	Posts    Posts
	Taxonomy Taxonomy
	UseCases UseCases
	Contacts Contacts
	Users    Users
}
