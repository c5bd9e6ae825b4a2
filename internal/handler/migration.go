// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/futurnod/siteapi/internal/middleware"
)

// MigrationStatus reports persisted migration progress.
func (h *Handler) MigrationStatus(w http.ResponseWriter, r *http.Request) {
	if h.migrator == nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, "remote_not_configured",
			"Remote backend is not configured", nil)
		return
	}

	status, err := h.migrator.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	status.InProgress = h.migrating.Load()
	writeJSON(w, http.StatusOK, status)
}

// RunMigration copies local content to the remote database. Only one
// run at a time; completed collections are skipped on re-run.
func (h *Handler) RunMigration(w http.ResponseWriter, r *http.Request) {
	if h.migrator == nil {
		middleware.WriteAPIError(w, http.StatusBadRequest, "remote_not_configured",
			"Remote backend is not configured", nil)
		return
	}
	if !h.migrating.CompareAndSwap(false, true) {
		middleware.WriteAPIError(w, http.StatusConflict, "migration_in_progress",
			"A migration is already running", nil)
		return
	}
	defer h.migrating.Store(false)

	status, err := h.migrator.Run(r.Context(), nil)
	if err != nil {
		slog.Error("migration run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
