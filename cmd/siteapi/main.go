// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/cache"
	"github.com/futurnod/siteapi/internal/config"
	"github.com/futurnod/siteapi/internal/contact"
	"github.com/futurnod/siteapi/internal/handler"
	"github.com/futurnod/siteapi/internal/logging"
	"github.com/futurnod/siteapi/internal/migrate"
	"github.com/futurnod/siteapi/internal/notify"
	"github.com/futurnod/siteapi/internal/scheduler"
	"github.com/futurnod/siteapi/internal/session"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/store/local"
	"github.com/futurnod/siteapi/internal/store/remote"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "siteapi - futurnod site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_DB_PATH          SQLite database path (default: ./data/siteapi.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_DATABASE_URL     Postgres URL for the remote backend (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_SERVICE_KEY      Remote backend service credential (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NOD_REDIS_URL        Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("siteapi %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	// The local database always opens: it holds sessions and the event
	// log even when content lives remotely.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing local database", "path", cfg.DBPath)
	db, err := local.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing local database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing local database", "error", err)
		}
	}(db)

	if err := local.Migrate(db); err != nil {
		return fmt.Errorf("running local migrations: %w", err)
	}

	localStores, kv := local.NewStores(db)

	// Upgrade the logger to also capture WARN and ERROR into the event log.
	slog.SetDefault(slog.New(logging.NewEventHandler(textHandler, kv)))

	ctx := context.Background()

	// Select the content backend once. Remote wins when both connection
	// secrets are configured; everything downstream sees one store.Stores.
	var (
		stores   store.Stores
		backend  string
		migrator *migrate.Migrator
	)
	if cfg.UseRemoteStore() {
		slog.Info("remote backend configured, connecting", "url", cfg.DatabaseURL)
		pool, err := remote.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to remote database: %w", err)
		}
		defer pool.Close()

		if err := remote.Migrate(pool); err != nil {
			return fmt.Errorf("running remote migrations: %w", err)
		}
		if cfg.DoSeed {
			if err := remote.Seed(ctx, pool); err != nil {
				return fmt.Errorf("seeding remote database: %w", err)
			}
		}

		stores = remote.NewStores(pool)
		backend = "remote"
		migrator = migrate.New(kv, pool)

		if ok, err := migrator.HasMigratableData(ctx); err == nil && ok {
			slog.Info("local content present; migration available via the admin API")
		}
	} else {
		if cfg.DoSeed {
			if err := local.Seed(ctx, kv); err != nil {
				return fmt.Errorf("seeding local database: %w", err)
			}
		}
		stores = localStores
		backend = "local"
	}
	slog.Info("content backend selected", "backend", backend)

	sessionManager := session.New(db, cfg.IsDevelopment())

	// Cache: Redis when configured, in-process memory otherwise.
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var listCache cache.Cache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			slog.Warn("redis unavailable, falling back to memory cache", "error", err)
			listCache = cache.NewMemoryCache(cacheTTL)
		} else {
			slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
			listCache = redisCache
		}
	} else {
		slog.Info("cache initialized", "backend", "memory")
		listCache = cache.NewMemoryCache(cacheTTL)
	}
	defer func() {
		if err := listCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	dispatcher := notify.NewDispatcher(notify.LogSender{}, slog.Default(), notify.Config{})
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	sched := scheduler.New(stores.Posts, slog.Default())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	h := handler.New(
		stores,
		sessionManager,
		auth.NewService(stores.Users),
		contact.NewService(stores.Contacts, dispatcher, cfg.AdminEmail, cfg.FromEmail),
		migrator,
		kv,
		listCache,
		cacheTTL,
		backend,
	)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           h.Routes(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
