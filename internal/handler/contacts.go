// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/store"
)

// SubmitContact handles the public contact form.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var form model.ContactForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.contacts.Submit(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}

// AdminListContacts returns all contact submissions, newest first.
func (h *Handler) AdminListContacts(w http.ResponseWriter, r *http.Request) {
	subs, err := h.stores.Contacts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// UpdateContactStatus changes the triage status of a submission.
func (h *Handler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Status == "" {
		writeError(w, r, store.Validationf("status", "Status is required"))
		return
	}

	if err := h.stores.Contacts.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteContact deletes a submission.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
