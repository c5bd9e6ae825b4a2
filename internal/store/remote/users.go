// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// UserStore implements store.Users over the remote database.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a remote admin user repository.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// List returns all admin users ordered by username.
func (s *UserStore) List(ctx context.Context) ([]model.AdminUser, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select("id", "username", "password_hash", "role").
		From("admin_users").
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, store.Failf("fetch admin users", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.Error("listing admin users", "error", err)
		return nil, store.Failf("fetch admin users", err)
	}
	defer rows.Close()

	users := []model.AdminUser{}
	for rows.Next() {
		var u model.AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
			return nil, store.Failf("fetch admin users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Failf("fetch admin users", err)
	}
	return users, nil
}

// GetByUsername returns the user with the given username, matched
// case-insensitively, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Select("id", "username", "password_hash", "role").
		From("admin_users").
		Where(sq.Expr("lower(username) = lower(?)", username)).
		ToSql()
	if err != nil {
		return nil, store.Failf("fetch admin user", err)
	}

	var u model.AdminUser
	err = s.pool.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.Failf("fetch admin user", err)
	}
	return &u, nil
}

// Create inserts a new admin user. A unique index on lower(username)
// backs duplicate detection.
func (s *UserStore) Create(ctx context.Context, user model.AdminUser) (*model.AdminUser, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Insert("admin_users").
		Columns("username", "password_hash", "role").
		Values(user.Username, user.PasswordHash, user.Role).
		Suffix("RETURNING id, username, password_hash, role").
		ToSql()
	if err != nil {
		return nil, store.Failf("create admin user", err)
	}

	var created model.AdminUser
	err = s.pool.QueryRow(ctx, sql, args...).Scan(
		&created.ID, &created.Username, &created.PasswordHash, &created.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, store.Validationf("username", "Username already exists")
		}
		slog.Error("inserting admin user", "error", err)
		return nil, store.Failf("create admin user", err)
	}
	return &created, nil
}

// Delete removes an admin user by id.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	sql, args, err := psql.Delete("admin_users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return store.Failf("delete admin user", err)
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		slog.Error("deleting admin user", "error", err, "id", id)
		return store.Failf("delete admin user", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
