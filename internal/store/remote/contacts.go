// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// ContactStore implements store.Contacts over the remote database.
type ContactStore struct {
	pool *pgxpool.Pool
}

// NewContactStore creates a remote contact submission repository.
func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{pool: pool}
}

var contactColumns = []string{
	"id", "name", "email", "phone", "website",
	"budget", "company", "message", "created_at", "status",
}

// List returns all submissions newest-first.
func (s *ContactStore) List(ctx context.Context) ([]model.ContactSubmission, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select(contactColumns...).
		From("contact_submissions").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, store.Failf("fetch contact submissions", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("listing contact submissions", "error", err)
		return nil, store.Failf("fetch contact submissions", err)
	}
	defer rows.Close()

	subs := []model.ContactSubmission{}
	for rows.Next() {
		var sub model.ContactSubmission
		if err := rows.Scan(
			&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Website,
			&sub.Budget, &sub.Company, &sub.Message, &sub.CreatedAt, &sub.Status,
		); err != nil {
			return nil, store.Failf("fetch contact submissions", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failf("fetch contact submissions", err)
	}
	return subs, nil
}

// Create persists a submission with status "new".
func (s *ContactStore) Create(ctx context.Context, form model.ContactForm) (*model.ContactSubmission, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	sql, args, err := psql.Insert("contact_submissions").
		Columns("name", "email", "phone", "website", "budget", "company", "message", "created_at", "status").
		Values(form.Name, form.Email, form.Phone, form.Website, form.Budget,
			form.Company, form.Message, now, model.ContactStatusNew).
		Suffix("RETURNING " + joinColumns(contactColumns)).
		ToSql()
	if err != nil {
		return nil, store.Failf("save contact submission", err)
	}

	var sub model.ContactSubmission
	if err := s.pool.QueryRow(ctx, sql, args...).Scan(
		&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Website,
		&sub.Budget, &sub.Company, &sub.Message, &sub.CreatedAt, &sub.Status,
	); err != nil {
		slog.Error("inserting contact submission", "error", err)
		return nil, store.Failf("save contact submission", err)
	}
	return &sub, nil
}

// UpdateStatus changes the workflow status of a submission.
func (s *ContactStore) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Update("contact_submissions").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return store.Failf("update contact submission", err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("updating contact submission", "error", err, "id", id)
		return store.Failf("update contact submission", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes a submission.
func (s *ContactStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Delete("contact_submissions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.Failf("delete contact submission", err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("deleting contact submission", "error", err, "id", id)
		return store.Failf("delete contact submission", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
