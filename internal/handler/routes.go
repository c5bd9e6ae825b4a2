// Copyright (c) 2025-2026 Futurnod
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/futurnod/siteapi/internal/middleware"
)

// Routes builds the chi router: public content reads, the contact and
// login endpoints behind per-IP rate limits, and the session-gated
// admin surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(h.sessions.LoadAndSave)
	r.Use(middleware.LoadUser(h.sessions, h.stores.Users))

	contactLimiter := middleware.NewIPRateLimiter(0.2, 3) // ~1 submission per 5s, burst 3
	loginLimiter := middleware.NewIPRateLimiter(0.5, 5)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		// Public content.
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/slug/{slug}", h.GetPostBySlug)
		r.Get("/posts/{id}", h.GetPost)
		r.Get("/categories", h.ListCategories)
		r.Get("/tags", h.ListTags)
		r.Get("/usecases", h.ListUseCases)
		r.Get("/usecases/{id}", h.GetUseCase)

		r.With(contactLimiter.Middleware()).Post("/contact", h.SubmitContact)

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware()).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(middleware.RequireAuth()).Get("/me", h.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth())

			r.Get("/posts", h.AdminListPosts)
			r.Post("/posts", h.CreatePost)
			r.Put("/posts/{id}", h.UpdatePost)
			r.Delete("/posts/{id}", h.DeletePost)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Post("/tags", h.CreateTag)
			r.Put("/tags/{id}", h.UpdateTag)
			r.Delete("/tags/{id}", h.DeleteTag)

			r.Get("/usecases", h.AdminListUseCases)
			r.Post("/usecases", h.CreateUseCase)
			r.Put("/usecases/{id}", h.UpdateUseCase)
			r.Delete("/usecases/{id}", h.DeleteUseCase)

			r.Get("/contacts", h.AdminListContacts)
			r.Patch("/contacts/{id}/status", h.UpdateContactStatus)
			r.Delete("/contacts/{id}", h.DeleteContact)

			// Account management, migration and the event log stay
			// behind the admin role.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Get("/users", h.ListUsers)
				r.Post("/users", h.CreateUser)
				r.Delete("/users/{id}", h.DeleteUser)

				r.Get("/migration", h.MigrationStatus)
				r.Post("/migration", h.RunMigration)

				r.Get("/events", h.ListEvents)
			})
		})
	})

	return r
}
