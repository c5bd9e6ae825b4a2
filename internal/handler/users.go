// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futurnod/siteapi/internal/auth"
	"github.com/futurnod/siteapi/internal/middleware"
	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// ListUsers returns all admin users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.stores.Users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates an admin user. The password is hashed here; the
// store never sees it in cleartext.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var form model.AdminUserForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	if form.Role == "" {
		form.Role = model.RoleUser
	}
	if err := store.ValidateAdminUserForm(form); err != nil {
		writeError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.stores.Users.Create(r.Context(), model.AdminUser{
		Username:     form.Username,
		PasswordHash: hash,
		Role:         form.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// DeleteUser deletes an admin user. Deleting your own account is
// rejected; it would orphan the live session.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if current := middleware.GetUser(r); current != nil && current.ID == id {
		writeError(w, r, store.Validationf("id", "Cannot delete your own account"))
		return
	}

	if err := h.stores.Users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
