// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// NewStores assembles the full remote repository set over one pool.
func NewStores(pool *pgxpool.Pool) store.Stores {
	return store.Stores{
		Posts:    NewPostStore(pool),
		Taxonomy: NewTaxonomyStore(pool),
		UseCases: NewUseCaseStore(pool),
		Contacts: NewContactStore(pool),
		Users:    NewUserStore(pool),
	}
}

// Seed creates the default admin account when the admin_users table is
// empty. Safe to run on every startup.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO admin_users (username, password_hash, role) VALUES ($1, $2, $3)`,
		"admin", hash, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	slog.Warn("created default admin account, change its password", "username", "admin")
	return nil
}
