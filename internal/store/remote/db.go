// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package remote implements the repository interfaces on top of a
// hosted Postgres database via pgx. It is the primary backend, chosen
// at startup whenever both the database URL and the service key are
// configured.
package remote

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// queryTimeout bounds every single statement against the remote
// database so a stalled connection cannot hang a request forever.
const queryTimeout = 10 * time.Second

// psql builds queries with Postgres dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewPool connects to the remote database and verifies the connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Migrate runs all pending remote schema migrations. goose drives a
// plain database/sql connection, so the pool's config is adapted to a
// one-off stdlib connection for the duration of the run.
func Migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// withTimeout derives a statement-scoped context.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// joinColumns renders a column list for a RETURNING clause.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
