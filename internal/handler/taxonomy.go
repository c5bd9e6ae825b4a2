// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futurnod/siteapi/internal/model"
)

// ListCategories returns all blog categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.stores.Taxonomy.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a blog category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var form model.TaxonomyForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.stores.Taxonomy.CreateCategory(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory renames a category. Embedded copies inside posts are
// rewritten by the store.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var form model.TaxonomyForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	category, err := h.stores.Taxonomy.UpdateCategory(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Taxonomy.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags returns all blog tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.stores.Taxonomy.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag creates a blog tag.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var form model.TaxonomyForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.stores.Taxonomy.CreateTag(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// UpdateTag renames a tag. Embedded copies inside posts are rewritten
// by the store.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var form model.TaxonomyForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := h.stores.Taxonomy.UpdateTag(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag deletes a tag and strips it from posts.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Taxonomy.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	w.WriteHeader(http.StatusNoContent)
}
