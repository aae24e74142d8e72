// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// MDPress. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mdpress/internal/handlers"
	"mdpress/internal/middleware"
	"mdpress/internal/session"
	"mdpress/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, imports *handlers.Import, public *handlers.Public, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets for the admin interface (production builds).
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			// Dashboard
			r.Get("/", admin.Dashboard)
			r.Get("/dashboard", admin.Dashboard)

			// Markdown import tool
			r.Get("/import", imports.ImportPage)
			r.Post("/import", imports.ImportSubmit)

			// Posts
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/{id}", admin.PostDetail)
				r.Get("/{id}/source", admin.PostSourceDownload)
				r.Delete("/{id}", admin.PostDelete)
			})

			// Categories
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Post("/", admin.CategoryCreate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			// User management — admin only
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Post("/", admin.UserCreate)
				r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
			})

			// Cache maintenance — admin only
			r.With(middleware.RequireAdmin).Post("/cache/purge", admin.CachePurge)
		})
	})

	// Public routes.
	r.Get("/", public.Homepage)
	r.Get("/{slug}", public.Page)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
