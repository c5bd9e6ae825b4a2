// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"NOD_DB_PATH" envDefault:"./data/siteapi.db"`
	SessionSecret string `env:"NOD_SESSION_SECRET,required"`
	ServerHost    string `env:"NOD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"NOD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"NOD_ENV" envDefault:"development"`
	LogLevel      string `env:"NOD_LOG_LEVEL" envDefault:"info"`

	// Remote backend configuration. Both secrets must be present for the
	// remote store to be used; otherwise the local fallback is active.
	DatabaseURL string `env:"NOD_DATABASE_URL"` // Postgres connection URL
	ServiceKey  string `env:"NOD_SERVICE_KEY"`  // Backend service credential

	// Notification configuration
	AdminEmail string `env:"NOD_ADMIN_EMAIL" envDefault:"admin@futurnod.com"`
	FromEmail  string `env:"NOD_FROM_EMAIL" envDefault:"noreply@futurnod.com"`

	// Cache configuration
	RedisURL    string `env:"NOD_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"NOD_CACHE_PREFIX" envDefault:"nod:"`  // Redis key prefix
	CacheTTL    int    `env:"NOD_CACHE_TTL" envDefault:"300"`      // Default cache TTL in seconds

	// Seeding configuration
	DoSeed bool `env:"NOD_DO_SEED" envDefault:"true"` // Seed default taxonomy and admin user
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRemoteStore returns true if the remote relational backend is
// configured. Presence of both connection secrets is the sole trigger;
// their absence selects the local fallback store system-wide.
func (c Config) UseRemoteStore() bool {
	return c.DatabaseURL != "" && c.ServiceKey != ""
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("NOD_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("NOD_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("NOD_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
