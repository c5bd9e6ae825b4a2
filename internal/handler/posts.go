// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/futurnod/siteapi/internal/model"
	"github.com/futurnod/siteapi/internal/render"
)

// postResponse is a post plus its rendered content, returned by the
// public detail endpoints.
type postResponse struct {
	model.Post
	ContentHTML string `json:"contentHtml"`
}

func newPostResponse(p *model.Post) (*postResponse, error) {
	html, err := render.Markdown(p.Content)
	if err != nil {
		return nil, err
	}
	return &postResponse{Post: *p, ContentHTML: html}, nil
}

// postFilterFromQuery reads the list filter from query parameters.
func postFilterFromQuery(r *http.Request) model.PostFilter {
	q := r.URL.Query()
	filter := model.PostFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Status:     q.Get("status"),
		AuthorID:   q.Get("author"),
	}
	if tags, ok := q["tag"]; ok {
		filter.TagIDs = tags
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}

// ListPosts returns published posts. An unfiltered request is served
// from the list cache.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	filter := postFilterFromQuery(r)
	filter.Status = model.PostStatusPublished

	unfiltered := filter.Search == "" && filter.CategoryID == "" &&
		len(filter.TagIDs) == 0 && filter.AuthorID == "" &&
		filter.Page == 0 && filter.Limit == 0

	if !unfiltered {
		posts, err := h.stores.Posts.List(r.Context(), filter)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
		return
	}

	posts, err := h.posts.GetOrSet(r.Context(), cacheKeyPublishedPosts, func() (*[]model.Post, error) {
		list, err := h.stores.Posts.List(r.Context(), filter)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, *posts)
}

// GetPost returns a single post by id with rendered content.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.stores.Posts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writePost(w, r, post)
}

// GetPostBySlug returns a single post by slug with rendered content.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.stores.Posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writePost(w, r, post)
}

func (h *Handler) writePost(w http.ResponseWriter, r *http.Request, post *model.Post) {
	resp, err := newPostResponse(post)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdminListPosts returns posts of every status, filtered by query.
func (h *Handler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.stores.Posts.List(r.Context(), postFilterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// CreatePost creates a post from the submitted form.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var form model.PostForm
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.stores.Posts.Create(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusCreated, post)
}

// UpdatePost applies a partial update to a post.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch model.PostPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.stores.Posts.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	writeJSON(w, http.StatusOK, post)
}

// DeletePost deletes a post.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	h.invalidateListCaches(r)
	w.WriteHeader(http.StatusNoContent)
}
