// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/util"
)

// defaultAuthorID is the seed author every post is attributed to until
// multi-author support lands.
const defaultAuthorID = "00000000-0000-0000-0000-000000000001"

// PostStore implements store.Posts over the remote database.
type PostStore struct {
	pool *pgxpool.Pool
}

// NewPostStore creates a remote post repository.
func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{pool: pool}
}

// postColumns are the joined columns every post query selects, in scan
// order for scanPost.
var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.content",
	"p.featured_image", "p.status", "p.created_at", "p.updated_at",
	"p.published_at", "p.read_time",
	"a.id", "a.name", "a.avatar",
	"c.id", "c.name", "c.slug",
}

func postSelect() sq.SelectBuilder {
	return psql.Select(postColumns...).
		From("blog_posts p").
		Join("authors a ON a.id = p.author_id").
		Join("blog_categories c ON c.id = p.category_id")
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
		&p.FeaturedImage, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&p.PublishedAt, &p.ReadTime,
		&p.Author.ID, &p.Author.Name, &p.Author.Avatar,
		&p.Category.ID, &p.Category.Name, &p.Category.Slug,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest-first matching the filter. Search, status,
// category and author narrow the query itself; tag filtering happens
// after tag hydration, then pagination.
func (s *PostStore) List(ctx context.Context, filter model.PostFilter) ([]model.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := postSelect().OrderBy("p.created_at DESC")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"p.title": like},
			sq.ILike{"p.excerpt": like},
			sq.ILike{"p.content": like},
		})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"p.status": filter.Status})
	}
	if filter.CategoryID != "" {
		q = q.Where(sq.Eq{"p.category_id": filter.CategoryID})
	}
	if filter.AuthorID != "" {
		q = q.Where(sq.Eq{"p.author_id": filter.AuthorID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, store.Failf("fetch blog posts", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("listing posts", "error", err)
		return nil, store.Failf("fetch blog posts", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, store.Failf("fetch blog posts", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failf("fetch blog posts", err)
	}

	if err := s.hydrateTags(ctx, posts); err != nil {
		return nil, store.Failf("fetch blog posts", err)
	}

	if len(filter.TagIDs) > 0 {
		kept := posts[:0:0]
		for i := range posts {
			if posts[i].HasTag(filter.TagIDs) {
				kept = append(kept, posts[i])
			}
		}
		posts = kept
	}

	return paginate(posts, filter.Page, filter.Limit), nil
}

// GetByID returns the post with the given id, or ErrNotFound.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return s.getOne(ctx, sq.Eq{"p.id": id})
}

// GetBySlug returns the post with the given slug, or ErrNotFound.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return s.getOne(ctx, sq.Eq{"p.slug": slug})
}

func (s *PostStore) getOne(ctx context.Context, where sq.Eq) (*model.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := postSelect().Where(where).ToSql()
	if err != nil {
		return nil, store.Failf("fetch blog post", err)
	}

	p, err := scanPost(s.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.Failf("fetch blog post", err)
	}

	posts := []model.Post{*p}
	if err := s.hydrateTags(ctx, posts); err != nil {
		return nil, store.Failf("fetch blog post", err)
	}
	return &posts[0], nil
}

// Create inserts a post and its tag associations in one transaction.
func (s *PostStore) Create(ctx context.Context, form model.PostForm) (*model.Post, error) {
	if err := store.ValidatePostForm(form); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, store.Failf("create blog post", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := psql.Insert("blog_posts").
		Columns("title", "slug", "excerpt", "content", "author_id", "category_id",
			"featured_image", "status", "created_at", "updated_at", "published_at", "read_time").
		Values(form.Title, util.Slugify(form.Title), form.Excerpt, form.Content,
			defaultAuthorID, form.CategoryID, featuredImage, status, now, now,
			publishedAt, util.ReadTime(form.Content)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, store.Failf("create blog post", err)
	}

	var id string
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		slog.Error("inserting post", "error", err)
		return nil, store.Failf("create blog post", err)
	}

	if err := replaceTags(ctx, tx, id, form.TagIDs); err != nil {
		return nil, store.Failf("create blog post", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, store.Failf("create blog post", err)
	}

	return s.GetByID(ctx, id)
}

// Update applies a partial update. PublishedAt is set on the first
// transition to published and never overwritten afterwards.
func (s *PostStore) Update(ctx context.Context, id string, patch model.PostPatch) (*model.Post, error) {
	if err := store.ValidatePostPatch(patch); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, store.Failf("update blog post", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	q := psql.Update("blog_posts").Set("updated_at", now).Where(sq.Eq{"id": id})

	if patch.Title != nil {
		q = q.Set("title", *patch.Title).Set("slug", util.Slugify(*patch.Title))
	}
	if patch.Excerpt != nil {
		q = q.Set("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		q = q.Set("content", *patch.Content).Set("read_time", util.ReadTime(*patch.Content))
	}
	if patch.FeaturedImage != nil {
		q = q.Set("featured_image", *patch.FeaturedImage)
	}
	if patch.CategoryID != nil {
		q = q.Set("category_id", *patch.CategoryID)
	}
	if patch.Status != nil {
		q = q.Set("status", *patch.Status)
		if *patch.Status == model.PostStatusPublished && current.PublishedAt == nil {
			q = q.Set("published_at", now)
		}
	}
	if patch.PublishedAt != nil && current.Status != model.PostStatusPublished {
		q = q.Set("published_at", *patch.PublishedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, store.Failf("update blog post", err)
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("updating post", "error", err, "id", id)
		return nil, store.Failf("update blog post", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrNotFound
	}

	if patch.TagIDs != nil {
		if err := replaceTags(ctx, tx, id, *patch.TagIDs); err != nil {
			return nil, store.Failf("update blog post", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, store.Failf("update blog post", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a post; join rows cascade.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Delete("blog_posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.Failf("delete blog post", err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("deleting post", "error", err, "id", id)
		return store.Failf("delete blog post", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// replaceTags rewrites the tag associations of a post inside tx.
// Unknown tag ids fail the foreign key and roll the transaction back.
func replaceTags(ctx context.Context, tx pgx.Tx, postID string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM blog_posts_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clearing post tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	ins := psql.Insert("blog_posts_tags").Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		ins = ins.Values(postID, tagID)
	}
	sql, args, err := ins.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("inserting post tags: %w", err)
	}
	return nil
}

// hydrateTags fills Tags for each post with one query over the join
// table.
func (s *PostStore) hydrateTags(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Tags = []model.Tag{}
	}

	sql, args, err := psql.Select("pt.post_id", "t.id", "t.name", "t.slug").
		From("blog_posts_tags pt").
		Join("blog_tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": ids}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("hydrating tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var tag model.Tag
		if err := rows.Scan(&postID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, tag)
		}
	}
	return rows.Err()
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
