// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/util"
)

// TaxonomyStore implements store.Taxonomy over the remote database.
// Categories and tags share one shape, so both sides delegate to the
// same table-parameterized helpers.
type TaxonomyStore struct {
	pool *pgxpool.Pool
}

// NewTaxonomyStore creates a remote taxonomy repository.
func NewTaxonomyStore(pool *pgxpool.Pool) *TaxonomyStore {
	return &TaxonomyStore{pool: pool}
}

type taxonomyRow struct {
	ID   string
	Name string
	Slug string
}

func (s *TaxonomyStore) list(ctx context.Context, table, op string) ([]taxonomyRow, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select("id", "name", "slug").From(table).OrderBy("name").ToSql()
	if err != nil {
		return nil, store.Failf(op, err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("listing taxonomy", "table", table, "error", err)
		return nil, store.Failf(op, err)
	}
	defer rows.Close()

	items := []taxonomyRow{}
	for rows.Next() {
		var row taxonomyRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Slug); err != nil {
			return nil, store.Failf(op, err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failf(op, err)
	}
	return items, nil
}

func (s *TaxonomyStore) get(ctx context.Context, table, id, op string) (*taxonomyRow, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select("id", "name", "slug").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, store.Failf(op, err)
	}

	var row taxonomyRow
	err = s.pool.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.Name, &row.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.Failf(op, err)
	}
	return &row, nil
}

func (s *TaxonomyStore) create(ctx context.Context, table string, form model.TaxonomyForm, op string) (*taxonomyRow, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Insert(table).
		Columns("name", "slug").
		Values(form.Name, util.Slugify(form.Name)).
		Suffix("RETURNING id, name, slug").
		ToSql()
	if err != nil {
		return nil, store.Failf(op, err)
	}

	var row taxonomyRow
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.Name, &row.Slug); err != nil {
		slog.Error("creating taxonomy entry", "table", table, "error", err)
		return nil, store.Failf(op, err)
	}
	return &row, nil
}

func (s *TaxonomyStore) update(ctx context.Context, table, id string, form model.TaxonomyForm, op string) (*taxonomyRow, error) {
	if err := store.ValidateTaxonomyForm(form); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Update(table).
		Set("name", form.Name).
		Set("slug", util.Slugify(form.Name)).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, slug").
		ToSql()
	if err != nil {
		return nil, store.Failf(op, err)
	}

	var row taxonomyRow
	err = s.pool.QueryRow(ctx, sql, args...).Scan(&row.ID, &row.Name, &row.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		slog.Error("updating taxonomy entry", "table", table, "error", err)
		return nil, store.Failf(op, err)
	}
	return &row, nil
}

func (s *TaxonomyStore) delete(ctx context.Context, table, id, op string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.Failf(op, err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("deleting taxonomy entry", "table", table, "error", err)
		return store.Failf(op, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *TaxonomyStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.list(ctx, "blog_categories", "fetch categories")
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, len(rows))
	for i, r := range rows {
		categories[i] = model.Category(r)
	}
	return categories, nil
}

// GetCategory returns the category with the given id, or ErrNotFound.
func (s *TaxonomyStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	row, err := s.get(ctx, "blog_categories", id, "fetch category")
	if err != nil {
		return nil, err
	}
	category := model.Category(*row)
	return &category, nil
}

// CreateCategory inserts a category with a derived slug.
func (s *TaxonomyStore) CreateCategory(ctx context.Context, form model.TaxonomyForm) (*model.Category, error) {
	row, err := s.create(ctx, "blog_categories", form, "create category")
	if err != nil {
		return nil, err
	}
	category := model.Category(*row)
	return &category, nil
}

// UpdateCategory renames a category; posts pick up the new name through
// the join on their next read.
func (s *TaxonomyStore) UpdateCategory(ctx context.Context, id string, form model.TaxonomyForm) (*model.Category, error) {
	row, err := s.update(ctx, "blog_categories", id, form, "update category")
	if err != nil {
		return nil, err
	}
	category := model.Category(*row)
	return &category, nil
}

// DeleteCategory removes a category. Posts referencing it keep the row
// alive through the foreign key, so deletion fails until they are
// reassigned.
func (s *TaxonomyStore) DeleteCategory(ctx context.Context, id string) error {
	return s.delete(ctx, "blog_categories", id, "delete category")
}

// ListTags returns all tags ordered by name.
func (s *TaxonomyStore) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.list(ctx, "blog_tags", "fetch tags")
	if err != nil {
		return nil, err
	}
	tags := make([]model.Tag, len(rows))
	for i, r := range rows {
		tags[i] = model.Tag(r)
	}
	return tags, nil
}

// GetTag returns the tag with the given id, or ErrNotFound.
func (s *TaxonomyStore) GetTag(ctx context.Context, id string) (*model.Tag, error) {
	row, err := s.get(ctx, "blog_tags", id, "fetch tag")
	if err != nil {
		return nil, err
	}
	tag := model.Tag(*row)
	return &tag, nil
}

// CreateTag inserts a tag with a derived slug.
func (s *TaxonomyStore) CreateTag(ctx context.Context, form model.TaxonomyForm) (*model.Tag, error) {
	row, err := s.create(ctx, "blog_tags", form, "create tag")
	if err != nil {
		return nil, err
	}
	tag := model.Tag(*row)
	return &tag, nil
}

// UpdateTag renames a tag.
func (s *TaxonomyStore) UpdateTag(ctx context.Context, id string, form model.TaxonomyForm) (*model.Tag, error) {
	row, err := s.update(ctx, "blog_tags", id, form, "update tag")
	if err != nil {
		return nil, err
	}
	tag := model.Tag(*row)
	return &tag, nil
}

// DeleteTag removes a tag; join rows cascade, stripping it from posts.
func (s *TaxonomyStore) DeleteTag(ctx context.Context, id string) error {
	return s.delete(ctx, "blog_tags", id, "delete tag")
}
