// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the JSON HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/cache"
	"github.com/futurnod/siteapi/internal/contact"
	"github.com/futurnod/siteapi/internal/middleware"
	"github.com/futurnod/siteapi/internal/migrate"
	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
	"github.com/futurnod/siteapi/internal/store/local"
)

// Cache keys for the public list endpoints. Filtered requests bypass
// the cache; any content write invalidates these keys.
const (
	cacheKeyPublishedPosts    = "posts:published"
	cacheKeyPublishedUseCases = "usecases:published"
)

// Handler carries the dependencies of the HTTP API.
type Handler struct {
	stores   store.Stores
	sessions *scs.SessionManager
	auth     *auth.Service
	contacts *contact.Service
	migrator *migrate.Migrator // nil when the remote backend is not configured
	kv       *local.KV
	backend  string

	migrating atomic.Bool

	posts    *cache.TypedCache[[]model.Post]
	useCases *cache.TypedCache[[]model.UseCase]
}

// New creates the API handler. The migrator may be nil; the migration
// endpoints then refuse to run.
func New(
	stores store.Stores,
	sessions *scs.SessionManager,
	authSvc *auth.Service,
	contactSvc *contact.Service,
	migrator *migrate.Migrator,
	kv *local.KV,
	listCache cache.Cache,
	cacheTTL time.Duration,
	backend string,
) *Handler {
	return &Handler{
		stores:   stores,
		sessions: sessions,
		auth:     authSvc,
		contacts: contactSvc,
		migrator: migrator,
		kv:       kv,
		backend:  backend,
		posts:    cache.NewTypedCache[[]model.Post](listCache, cacheTTL),
		useCases: cache.NewTypedCache[[]model.UseCase](listCache, cacheTTL),
	}
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError maps a store or service error to the JSON error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteAPIError(w, http.StatusNotFound, "not_found", "Resource not found", nil)
	case errors.As(err, &ve):
		middleware.WriteAPIError(w, http.StatusBadRequest, "validation_error", ve.Message,
			map[string]string{ve.Field: ve.Message})
	case errors.Is(err, auth.ErrInvalidCredentials):
		middleware.WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		middleware.WriteAPIError(w, http.StatusInternalServerError, "internal_error",
			"An internal error occurred", nil)
	}
}

// decodeJSON reads a request body into v. A malformed body is reported
// as a validation error on the synthetic "body" field.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return store.Validationf("body", "Invalid JSON request body")
	}
	return nil
}

// invalidateListCaches drops the cached public lists after any content
// write. Failures only make the next read slower.
func (h *Handler) invalidateListCaches(r *http.Request) {
	if err := h.posts.Delete(r.Context(), cacheKeyPublishedPosts); err != nil {
		slog.Warn("cache invalidation failed", "key", cacheKeyPublishedPosts, "error", err)
	}
	if err := h.useCases.Delete(r.Context(), cacheKeyPublishedUseCases); err != nil {
		slog.Warn("cache invalidation failed", "key", cacheKeyPublishedUseCases, "error", err)
	}
}
