// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// UseCaseStore implements store.UseCases over the local key-value store.
type UseCaseStore struct {
	kv *KV
}

// NewUseCaseStore creates a local use case repository.
func NewUseCaseStore(kv *KV) *UseCaseStore {
	return &UseCaseStore{kv: kv}
}

// List returns all use cases newest-created-first, normalized to the
// canonical industry/category shape.
func (s *UseCaseStore) List(ctx context.Context) ([]model.UseCase, error) {
	cases, err := Collection[model.UseCase](ctx, s.kv, KeyUseCases)
	if err != nil {
		return nil, store.Failf("fetch use cases", err)
	}
	for i := range cases {
		cases[i].Normalize()
	}
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].CreatedAt.After(cases[j].CreatedAt)
	})
	return cases, nil
}

// GetByID returns the use case with the given id, or ErrNotFound.
func (s *UseCaseStore) GetByID(ctx context.Context, id string) (*model.UseCase, error) {
	cases, err := Collection[model.UseCase](ctx, s.kv, KeyUseCases)
	if err != nil {
		return nil, store.Failf("fetch use case", err)
	}
	for i := range cases {
		if cases[i].ID == id {
			cases[i].Normalize()
			return &cases[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Create validates the form and appends a normalized use case.
func (s *UseCaseStore) Create(ctx context.Context, form model.UseCaseForm) (*model.UseCase, error) {
	if err := store.ValidateUseCaseForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyUseCases)
	defer unlock()

	cases, err := Collection[model.UseCase](ctx, s.kv, KeyUseCases)
	if err != nil {
		return nil, store.Failf("create use case", err)
	}

	now := time.Now().UTC()
	status := form.Status
	if status == "" {
		status = model.UseCaseStatusDraft
	}

	uc := model.UseCase{
		ID:          newID("usecase_"),
		Title:       form.Title,
		Description: form.Description,
		Content:     form.Content,
		Industries:  form.NormalizedIndustries(),
		Categories:  form.NormalizedCategories(),
		ImageURL:    form.ImageURL,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	uc.Normalize()

	cases = append(cases, uc)
	if err := SaveCollection(ctx, s.kv, KeyUseCases, cases); err != nil {
		slog.Error("saving use case collection", "error", err)
		return nil, store.Failf("create use case", err)
	}
	return &uc, nil
}

// Update applies a partial update and renormalizes the record.
func (s *UseCaseStore) Update(ctx context.Context, id string, patch model.UseCasePatch) (*model.UseCase, error) {
	unlock := s.kv.Lock(KeyUseCases)
	defer unlock()

	cases, err := Collection[model.UseCase](ctx, s.kv, KeyUseCases)
	if err != nil {
		return nil, store.Failf("update use case", err)
	}

	idx := -1
	for i := range cases {
		if cases[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, store.ErrNotFound
	}

	uc := cases[idx]
	if patch.Title != nil {
		uc.Title = *patch.Title
	}
	if patch.Description != nil {
		uc.Description = *patch.Description
	}
	if patch.Content != nil {
		uc.Content = *patch.Content
	}
	if patch.Industries != nil {
		uc.Industries = *patch.Industries
		uc.Industry = ""
	} else if patch.Industry != nil {
		uc.Industries = nil
		uc.Industry = *patch.Industry
	}
	if patch.Categories != nil {
		uc.Categories = *patch.Categories
		uc.Category = ""
	} else if patch.Category != nil {
		uc.Categories = nil
		uc.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		uc.ImageURL = *patch.ImageURL
	}
	if patch.Status != nil {
		uc.Status = *patch.Status
	}
	uc.UpdatedAt = time.Now().UTC()
	uc.Normalize()

	cases[idx] = uc
	if err := SaveCollection(ctx, s.kv, KeyUseCases, cases); err != nil {
		slog.Error("saving use case collection", "error", err)
		return nil, store.Failf("update use case", err)
	}
	return &uc, nil
}

// Delete removes the use case with the given id.
func (s *UseCaseStore) Delete(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyUseCases)
	defer unlock()

	cases, err := Collection[model.UseCase](ctx, s.kv, KeyUseCases)
	if err != nil {
		return store.Failf("delete use case", err)
	}

	remaining := cases[:0:0]
	for i := range cases {
		if cases[i].ID != id {
			remaining = append(remaining, cases[i])
		}
	}
	if len(remaining) == len(cases) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyUseCases, remaining); err != nil {
		slog.Error("saving use case collection", "error", err)
		return store.Failf("delete use case", err)
	}
	return nil
}
