// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package local

import (
	"context"
	"log/slog"
	"time"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/util"
)

// PostStore implements store.Posts over the local key-value store.
// Category, tags and author are embedded in each stored record, so the
// post collection is self-contained and join rows need no separate key.
type PostStore struct {
	kv *KV
}

// NewPostStore creates a local post repository.
func NewPostStore(kv *KV) *PostStore {
	return &PostStore{kv: kv}
}

// List returns posts matching the filter in insertion order.
func (s *PostStore) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		slog.Error("listing posts", "error", err)
		return nil, store.Failf("fetch blog posts", err)
	}

	filtered := make([]model.Post, 0, len(posts))
	for i := range posts {
		if filter.Matches(&posts[i]) {
			filtered = append(filtered, posts[i])
		}
	}

	return paginate(filtered, filter.Page, filter.Limit), nil
}

// GetByID returns the post with the given id, or ErrNotFound.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return nil, store.Failf("fetch blog post", err)
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// GetBySlug returns the post with the given slug, or ErrNotFound.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return nil, store.Failf("fetch blog post", err)
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Create validates the form, derives slug, read time and timestamps,
// and appends the post to the collection.
func (s *PostStore) Create(ctx context.Context, form model.PostForm) (*model.Post, error) {
	if err := store.ValidatePostForm(form); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyPosts)
	defer unlock()

	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return nil, store.Failf("create blog post", err)
	}

	category, tags, err := s.resolveRefs(ctx, form.CategoryID, form.TagIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status := form.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	publishedAt := form.PublishedAt
	if status == model.PostStatusPublished {
		publishedAt = &now
	}
	featuredImage := form.FeaturedImage
	if featuredImage == "" {
		featuredImage = model.DefaultFeaturedImage
	}

	post := model.Post{
		ID:            newID("post_"),
		Title:         form.Title,
		Slug:          util.Slugify(form.Title),
		Excerpt:       form.Excerpt,
		Content:       form.Content,
		Author:        model.DefaultAuthor(),
		Category:      *category,
		Tags:          tags,
		FeaturedImage: featuredImage,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
		PublishedAt:   publishedAt,
		ReadTime:      util.ReadTime(form.Content),
	}

	posts = append(posts, post)
	if err := SaveCollection(ctx, s.kv, KeyPosts, posts); err != nil {
		slog.Error("saving post collection", "error", err)
		return nil, store.Failf("create blog post", err)
	}

	return &post, nil
}

// Update applies a partial update. Slug and read time are recomputed
// only when title or content are supplied; UpdatedAt always refreshes.
// PublishedAt is set once, on the first transition to published.
func (s *PostStore) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if err := store.ValidatePostPatch(patch); err != nil {
		return nil, err
	}

	unlock := s.kv.Lock(KeyPosts)
	defer unlock()

	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return nil, store.Failf("update blog post", err)
	}

	idx := -1
	for i := range posts {
		if posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, store.ErrNotFound
	}

	post := posts[idx]
	now := time.Now().UTC()

	if patch.Title != nil {
		post.Title = *patch.Title
		post.Slug = util.Slugify(*patch.Title)
	}
	if patch.Excerpt != nil {
		post.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		post.Content = *patch.Content
		post.ReadTime = util.ReadTime(*patch.Content)
	}
	if patch.FeaturedImage != nil {
		post.FeaturedImage = *patch.FeaturedImage
	}
	if patch.CategoryID != nil {
		category, _, err := s.resolveRefs(ctx, *patch.CategoryID, nil)
		if err != nil {
			return nil, err
		}
		post.Category = *category
	}
	if patch.TagIDs != nil {
		_, tags, err := s.resolveRefs(ctx, post.Category.ID, *patch.TagIDs)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}
	if patch.Status != nil {
		if *patch.Status == model.PostStatusPublished && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
		post.Status = *patch.Status
	}
	if patch.PublishedAt != nil && post.Status != model.PostStatusPublished {
		post.PublishedAt = patch.PublishedAt
	}
	post.UpdatedAt = now

	posts[idx] = post
	if err := SaveCollection(ctx, s.kv, KeyPosts, posts); err != nil {
		slog.Error("saving post collection", "error", err)
		return nil, store.Failf("update blog post", err)
	}

	return &post, nil
}

// Delete removes the post with the given id. Tag associations live
// inside the record, so they go with it.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	unlock := s.kv.Lock(KeyPosts)
	defer unlock()

	posts, err := Collection[model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return store.Failf("delete blog post", err)
	}

	remaining := posts[:0:0]
	for i := range posts {
		if posts[i].ID != id {
			remaining = append(remaining, posts[i])
		}
	}
	if len(remaining) == len(posts) {
		return store.ErrNotFound
	}

	if err := SaveCollection(ctx, s.kv, KeyPosts, remaining); err != nil {
		slog.Error("saving post collection", "error", err)
		return store.Failf("delete blog post", err)
	}
	return nil
}

// resolveRefs resolves a category id and a tag id set against their
// collections. An unknown category is a validation failure; unknown
// tag ids are dropped silently.
func (s *PostStore) resolveRefs(ctx context.Context, categoryID string, tagIDs []string) (*model.Category, []model.Tag, error) {
	categories, err := Collection[model.Category](ctx, s.kv, KeyCategories)
	if err != nil {
		return nil, nil, store.Failf("resolve category", err)
	}

	var category *model.Category
	for i := range categories {
		if categories[i].ID == categoryID {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return nil, nil, store.Validationf("categoryId", "Category not found")
	}

	allTags, err := Collection[model.Tag](ctx, s.kv, KeyTags)
	if err != nil {
		return nil, nil, store.Failf("resolve tags", err)
	}

	tags := make([]model.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		for i := range allTags {
			if allTags[i].ID == id {
				tags = append(tags, allTags[i])
				break
			}
		}
	}

	return category, tags, nil
}

// paginate slices items by page and limit when both are positive.
func paginate[T any](items []T, page, limit int) []T {
	if page <= 0 || limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
