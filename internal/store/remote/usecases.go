// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// UseCaseStore implements store.UseCases over the remote database.
// Industries and categories are stored as text arrays; the legacy
// single-valued fields are derived on read.
type UseCaseStore struct {
	pool *pgxpool.Pool
}

// NewUseCaseStore creates a remote use case repository.
func NewUseCaseStore(pool *pgxpool.Pool) *UseCaseStore {
	return &UseCaseStore{pool: pool}
}

var useCaseColumns = []string{
	"id", "title", "description", "content",
	"industries", "categories", "image_url", "status",
	"created_at", "updated_at",
}

func scanUseCase(row pgx.Row) (*model.UseCase, error) {
	var uc model.UseCase
	err := row.Scan(
		&uc.ID, &uc.Title, &uc.Description, &uc.Content,
		&uc.Industries, &uc.Categories, &uc.ImageURL, &uc.Status,
		&uc.CreatedAt, &uc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	uc.Normalize()
	return &uc, nil
}

// List returns all use cases newest-created-first.
func (s *UseCaseStore) List(ctx context.Context) ([]model.UseCase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select(useCaseColumns...).
		From("usecases").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, store.Failf("fetch use cases", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("listing use cases", "error", err)
		return nil, store.Failf("fetch use cases", err)
	}
	defer rows.Close()

	cases := []model.UseCase{}
	for rows.Next() {
		uc, err := scanUseCase(rows)
		if err != nil {
			return nil, store.Failf("fetch use cases", err)
		}
		cases = append(cases, *uc)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failf("fetch use cases", err)
	}
	return cases, nil
}

// GetByID returns the use case with the given id, or ErrNotFound.
func (s *UseCaseStore) GetByID(ctx context.Context, id string) (*model.UseCase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select(useCaseColumns...).From("usecases").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, store.Failf("fetch use case", err)
	}

	uc, err := scanUseCase(s.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.Failf("fetch use case", err)
	}
	return uc, nil
}

// Create validates the form and inserts a normalized use case.
func (s *UseCaseStore) Create(ctx context.Context, form model.UseCaseForm) (*model.UseCase, error) {
	if err := store.ValidateUseCaseForm(form); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	status := form.Status
	if status == "" {
		status = model.UseCaseStatusDraft
	}
	now := time.Now().UTC()

	sql, args, err := psql.Insert("usecases").
		Columns("title", "description", "content", "industries", "categories",
			"image_url", "status", "created_at", "updated_at").
		Values(form.Title, form.Description, form.Content,
			form.NormalizedIndustries(), form.NormalizedCategories(),
			form.ImageURL, status, now, now).
		Suffix("RETURNING " + joinColumns(useCaseColumns)).
		ToSql()
	if err != nil {
		return nil, store.Failf("create use case", err)
	}

	uc, err := scanUseCase(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		slog.Error("inserting use case", "error", err)
		return nil, store.Failf("create use case", err)
	}
	return uc, nil
}

// Update applies a partial update and returns the fresh record.
func (s *UseCaseStore) Update(ctx context.Context, id string, patch model.UseCasePatch) (*model.UseCase, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := psql.Update("usecases").Set("updated_at", time.Now().UTC()).Where(sq.Eq{"id": id})

	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description", *patch.Description)
	}
	if patch.Content != nil {
		q = q.Set("content", *patch.Content)
	}
	if patch.Industries != nil {
		q = q.Set("industries", *patch.Industries)
	} else if patch.Industry != nil {
		q = q.Set("industries", []string{*patch.Industry})
	}
	if patch.Categories != nil {
		q = q.Set("categories", *patch.Categories)
	} else if patch.Category != nil {
		q = q.Set("categories", []string{*patch.Category})
	}
	if patch.ImageURL != nil {
		q = q.Set("image_url", *patch.ImageURL)
	}
	if patch.Status != nil {
		q = q.Set("status", *patch.Status)
	}

	sql, args, err := q.Suffix("RETURNING " + joinColumns(useCaseColumns)).ToSql()
	if err != nil {
		return nil, store.Failf("update use case", err)
	}

	uc, err := scanUseCase(s.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		slog.Error("updating use case", "error", err, "id", id)
		return nil, store.Failf("update use case", err)
	}
	return uc, nil
}

// Delete removes the use case with the given id.
func (s *UseCaseStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Delete("usecases").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.Failf("delete use case", err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("deleting use case", "error", err, "id", id)
		return store.Failf("delete use case", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
