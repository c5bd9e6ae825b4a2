// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/futurnod/siteapi/internal/middleware"
)

// Login verifies credentials and opens a session. The session token is
// renewed on success to prevent session fixation.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		slog.Warn("login failed", "username", body.Username, "remote_addr", r.RemoteAddr)
		writeError(w, r, err)
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUsername, user.Username)

	slog.Info("login succeeded", "username", user.Username)
	writeJSON(w, http.StatusOK, user)
}

// Logout destroys the session unconditionally.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		middleware.WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
