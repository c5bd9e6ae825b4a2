// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/render"
)

// useCaseResponse is a use case plus its rendered content, returned by
// the public detail endpoint.
type useCaseResponse struct {
	model.UseCase
	ContentHTML string `json:"contentHtml"`
}

// ListUseCases returns published use cases, newest first, served from
// the list cache.
func (h *Handler) ListUseCases(w http.ResponseWriter, r *http.Request) {
	useCases, err := h.useCases.GetOrSet(r.Context(), cacheKeyPublishedUseCases, func() (*[]model.UseCase, error) {
		all, err := h.stores.UseCases.List(r.Context())
		if err != nil {
			return nil, err
		}
		published := make([]model.UseCase, 0, len(all))
		for _, uc := range all {
			if uc.Status == model.UseCaseStatusPublished {
				published = append(published, uc)
			}
		}
		return &published, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, *useCases)
}

// GetUseCase returns a single use case with rendered content.
func (h *Handler) GetUseCase(w http.ResponseWriter, r *http.Request) {
	uc, err := h.stores.UseCases.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	html, err := render.Markdown(uc.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &useCaseResponse{UseCase: *uc, ContentHTML: html})
}

// AdminListUseCases returns use cases of every status.
func (h *Handler) AdminListUseCases(w http.ResponseWriter, r *http.Request) {
	useCases, err := h.stores.UseCases.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, useCases)
}

// CreateUseCase creates a use case from the submitted form.
func (h *Handler) CreateUseCase(w http.ResponseWriter, r *http.Request) {
	var form model.UseCaseForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	uc, err := h.stores.UseCases.Create(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusCreated, uc)
}

// UpdateUseCase applies a partial update to a use case.
func (h *Handler) UpdateUseCase(w http.ResponseWriter, r *http.Request) {
	var patch model.UseCasePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	uc, err := h.stores.UseCases.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusOK, uc)
}

// DeleteUseCase deletes a use case.
func (h *Handler) DeleteUseCase(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.UseCases.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	w.WriteHeader(http.StatusNoContent)
}
