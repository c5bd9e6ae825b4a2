// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"log/slog"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/util"
)

// TaxonomyStore implements store.Taxonomy over the local key-value
// store. Categories and tags are separate collections; posts embed
// copies of both, so renames and tag deletions propagate into the post
// collection as well.
type TaxonomyStore struct {
	kv *KV
}

// NewTaxonomyStore creates a local taxonomy repository.
func NewTaxonomyStore(kv *KV) *TaxonomyStore {
	return &TaxonomyStore{kv: kv}
}

// ListCategories returns all categories in insertion order.
func (s *TaxonomyStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return nil, store.Failf("fetch categories", err)
	}
	return categories, nil
}

// GetCategory returns the category with the given id, or ErrNotFound.
func (s *TaxonomyStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return nil, store.Failf("fetch category", err)
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateCategory appends a new category with a derived slug.
func (s *TaxonomyStore) CreateCategory(ctx context.Context, form model.TaxonomyForm) (*model.Category, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyCategories)
	defer unlock()

	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return nil, store.Failf("create category", err)
	}

	category := model.Category{
		ID:   newID("category_"),
		Name: form.Name,
		Slug: util.Slugify(form.Name),
	}
	categories = append(categories, category)

	if err := SaveCollection(ctx, s.kv, KeyCategories, categories); err != nil {
		slog.Error("saving category collection", "error", err)
		return nil, store.Failf("create category", err)
	}
	return &category, nil
}

// UpdateCategory renames a category and refreshes its slug. The copy
// embedded in each post is updated in the same pass.
func (s *TaxonomyStore) UpdateCategory(ctx context.Context, id string, form model.TaxonomyForm) (*model.Category, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyCategories)
	defer unlock()

	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return nil, store.Failf("update category", err)
	}

	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, store.ErrNotFound
	}

	categories[idx].Name = form.Name
	categories[idx].Slug = util.Slugify(form.Name)

	if err := SaveCollection(ctx, s.kv, KeyCategories, categories); err != nil {
		slog.Error("saving category collection", "error", err)
		return nil, store.Failf("update category", err)
	}

	updated := categories[idx]
	if err := s.rewritePosts(ctx, func(p *model.Post) bool {
		if p.Category.ID != id {
			return false
		}
		p.Category = updated
		return true
	}); err != nil {
		return nil, store.Failf("update category", err)
	}

	return &updated, nil
}

// DeleteCategory removes a category. Posts keep their embedded copy;
// they are reassigned when next edited.
func (s *TaxonomyStore) DeleteCategory(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyCategories)
	defer unlock()

	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return store.Failf("delete category", err)
	}

	remaining := categories[:0:0]
	for i := range categories {
		if categories[i].ID != id {
			remaining = append(remaining, categories[i])
		}
	}
	if len(remaining) == len(categories) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyCategories, remaining); err != nil {
		slog.Error("saving category collection", "error", err)
		return store.Failf("delete category", err)
	}
	return nil
}

// ListTags returns all tags in insertion order.
func (s *TaxonomyStore) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return nil, store.Failf("fetch tags", err)
	}
	return tags, nil
}

// GetTag returns the tag with the given id, or ErrNotFound.
func (s *TaxonomyStore) GetTag(ctx context.Context, id string) (*model.Tag, error) {
	tags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return nil, store.Failf("fetch tag", err)
	}
	for i := range tags {
		if tags[i].ID == id {
			return &tags[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateTag appends a new tag with a derived slug.
func (s *TaxonomyStore) CreateTag(ctx context.Context, form model.TaxonomyForm) (*model.Tag, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyTags)
	defer unlock()

	tags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return nil, store.Failf("create tag", err)
	}

	tag := model.Tag{
		ID:   newID("tag_"),
		Name: form.Name,
		Slug: util.Slugify(form.Name),
	}
	tags = append(tags, tag)

	if err := SaveCollection(ctx, s.kv, KeyTags, tags); err != nil {
		slog.Error("saving tag collection", "error", err)
		return nil, store.Failf("create tag", err)
	}
	return &tag, nil
}

// UpdateTag renames a tag and refreshes its slug, rewriting the copies
// embedded in posts.
func (s *TaxonomyStore) UpdateTag(ctx context.Context, id string, form model.TaxonomyForm) (*model.Tag, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyTags)
	defer unlock()

	tags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return nil, store.Failf("update tag", err)
	}

	idx := -1
	for i := range tags {
		if tags[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, store.ErrNotFound
	}

	tags[idx].Name = form.Name
	tags[idx].Slug = util.Slugify(form.Name)

	if err := SaveCollection(ctx, s.kv, KeyTags, tags); err != nil {
		slog.Error("saving tag collection", "error", err)
		return nil, store.Failf("update tag", err)
	}

	updated := tags[idx]
	if err := s.rewritePosts(ctx, func(p *model.Post) bool {
		changed := false
		for i := range p.Tags {
			if p.Tags[i].ID == id {
				p.Tags[i] = updated
				changed = true
			}
		}
		return changed
	}); err != nil {
		return nil, store.Failf("update tag", err)
	}

	return &updated, nil
}

// DeleteTag removes a tag and strips it from every post that carries it.
func (s *TaxonomyStore) DeleteTag(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyTags)
	defer unlock()

	tags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return store.Failf("delete tag", err)
	}

	remaining := tags[:0:0]
	for i := range tags {
		if tags[i].ID != id {
			remaining = append(remaining, tags[i])
		}
	}
	if len(remaining) == len(tags) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyTags, remaining); err != nil {
		slog.Error("saving tag collection", "error", err)
		return store.Failf("delete tag", err)
	}

	if err := s.rewritePosts(ctx, func(p *model.Post) bool {
		kept := p.Tags[:0:0]
		for i := range p.Tags {
			if p.Tags[i].ID != id {
				kept = append(kept, p.Tags[i])
			}
		}
		if len(kept) == len(p.Tags) {
			return false
		}
		p.Tags = kept
		return true
	}); err != nil {
		return store.Failf("delete tag", err)
	}
	return nil
}

// rewritePosts applies fn to every post and saves the collection if
// any post changed. Callers hold the taxonomy lock; the post lock is
// taken here, so lock order is always taxonomy before posts.
func (s *TaxonomyStore) rewritePosts(ctx context.Context, fn func(*model.Post) bool) error {
	unlock := s.kv.Lock(KeyPosts)
	defer unlock()

	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return err
	}

	changed := false
	for i := range posts {
		if fn(&posts[i]) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return SaveCollection(ctx, s.kv, KeyPosts, posts)
}
