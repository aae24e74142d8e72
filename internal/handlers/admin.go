// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for MDPress. Handlers are
// grouped by concern (admin, import, public, auth) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/google/uuid"

	"mdpress/internal/cache"
	"mdpress/internal/middleware"
	"mdpress/internal/models"
	"mdpress/internal/render"
	"mdpress/internal/session"
	"mdpress/internal/slug"
	"mdpress/internal/storage"
	"mdpress/internal/store"
)

// Admin groups all admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	contentStore  *store.ContentStore
	categoryStore *store.CategoryStore
	userStore     *store.UserStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewAdmin creates a new Admin handler group with the given dependencies.
// storageClient may be nil if S3 is not configured.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, contentStore *store.ContentStore, categoryStore *store.CategoryStore, userStore *store.UserStore, storageClient *storage.Client, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		contentStore:  contentStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// Dashboard renders the admin dashboard page with real stats.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	postCount, _ := a.contentStore.Count()
	categories, _ := a.categoryStore.List()
	users, _ := a.userStore.List()

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"PostCount":     postCount,
			"CategoryCount": len(categories),
			"UserCount":     len(users),
		},
	})
}

// --- Posts ---

// PostsList renders the posts management page.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.contentStore.List()
	if err != nil {
		slog.Error("list posts failed", "error", err)
	}

	a.renderer.Page(w, r, "posts_list", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data:    map[string]any{"Posts": posts},
	})
}

// PostDetail renders a read-only view of an imported post, including its
// rendered HTML and a link to the archived Markdown source when present.
func (a *Admin) PostDetail(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	item, err := a.contentStore.FindByID(id)
	if err != nil || item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	categoryName := models.UncategorizedName
	if item.CategoryID > 0 {
		if cat, err := a.categoryStore.FindByID(item.CategoryID); err == nil && cat != nil {
			categoryName = cat.Name
		}
	}

	data := map[string]any{
		"Post":         item,
		"CategoryName": categoryName,
		"Body":         template.HTML(item.Body),
	}

	// Offer a download link for the archived source when available.
	if item.SourceKey != nil && a.storageClient != nil {
		if url, err := a.storageClient.PresignedURL(r.Context(), *item.SourceKey, 15*time.Minute); err == nil {
			data["SourceURL"] = url
		}
	}

	a.renderer.Page(w, r, "post_detail", &render.PageData{
		Title:   item.Title,
		Section: "posts",
		Data:    data,
	})
}

// PostSourceDownload streams the archived Markdown source of a post. It
// returns 404 when archival is not configured or the post has no source.
func (a *Admin) PostSourceDownload(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if a.storageClient == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	item, err := a.contentStore.FindByID(id)
	if err != nil || item == nil || item.SourceKey == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	data, err := a.storageClient.Download(r.Context(), *item.SourceKey)
	if err != nil {
		slog.Error("download archived source failed", "key", *item.SourceKey, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.Slug+".md"))
	w.Write(data)
}

// PostDelete handles post deletion, including the archived source object.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Look up the post before deleting so we can invalidate its cache entry
	// and clean up the archived source.
	item, _ := a.contentStore.FindByID(id)

	if err := a.contentStore.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err)
	} else if item != nil {
		a.invalidateContentCache(r.Context(), item.Slug)
		if item.SourceKey != nil && a.storageClient != nil {
			if err := a.storageClient.Delete(r.Context(), *item.SourceKey); err != nil {
				slog.Warn("delete archived source failed", "key", *item.SourceKey, "error", err)
			}
		}
	}

	if r.Header.Get("HX-Request") == "true" {
		// HTMX swaps the deleted row out; an empty 200 removes it.
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// --- Categories ---

// CategoriesList renders the category management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categoryStore.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	a.renderer.Page(w, r, "categories_list", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Categories": categories},
	})
}

// CategoryCreate handles the new category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return
	}

	c := &models.Category{
		Name: name,
		Slug: slug.Generate(name),
	}
	if _, err := a.categoryStore.Create(c); err != nil {
		slog.Error("create category failed", "name", name, "error", err)
	}

	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete handles category deletion. Posts in the category keep
// existing; the database clears their category reference.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.categoryStore.Delete(id); err != nil {
		slog.Error("delete category failed", "id", id, "error", err)
	}

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// --- Users ---

// UsersList renders the user management page.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.userStore.List()
	if err != nil {
		slog.Error("list users failed", "error", err)
	}

	a.renderer.Page(w, r, "users_list", &render.PageData{
		Title:   "Users",
		Section: "users",
		Data:    map[string]any{"Users": users},
	})
}

// UserCreate handles the new user form submission.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	role := models.Role(r.FormValue("role"))

	var errMsg string
	switch {
	case email == "":
		errMsg = "Email is required."
	case displayName == "":
		errMsg = "Display name is required."
	case len(password) < 8:
		errMsg = "Password must be at least 8 characters."
	case role != models.RoleAdmin && role != models.RoleEditor:
		errMsg = "Invalid role."
	}

	if errMsg == "" {
		// Check for duplicate email.
		if existing, _ := a.userStore.FindByEmail(email); existing != nil {
			errMsg = "A user with this email already exists."
		}
	}

	if errMsg != "" {
		users, _ := a.userStore.List()
		a.renderer.Page(w, r, "users_list", &render.PageData{
			Title:   "Users",
			Section: "users",
			Data:    map[string]any{"Users": users, "Error": errMsg},
		})
		return
	}

	if _, err := a.userStore.Create(email, password, displayName, role); err != nil {
		slog.Error("create user failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("user created", "admin", sess.Email, "new_user", email, "role", role)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/users")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// UserResetTwoFA resets another user's 2FA, forcing re-setup on next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	idStr := chi.URLParam(r, "id")
	targetID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Cannot reset your own 2FA.
	if targetID == sess.UserID {
		http.Error(w, "Cannot reset your own 2FA", http.StatusForbidden)
		return
	}

	if err := a.userStore.ResetTOTP(targetID); err != nil {
		slog.Error("reset 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("2fa reset by admin", "admin", sess.Email, "target_user", targetID)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/users")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// --- Cache ---

// CachePurge drops every cached public page. Exposed as a maintenance
// action on the dashboard for admins.
func (a *Admin) CachePurge(w http.ResponseWriter, r *http.Request) {
	a.pageCache.InvalidateAll(r.Context())
	slog.Info("page cache purged")

	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// invalidateContentCache purges the page cache for a post and the
// homepage, which lists recent posts.
func (a *Admin) invalidateContentCache(ctx context.Context, contentSlug string) {
	a.pageCache.InvalidatePage(ctx, cache.SlugKey(contentSlug))
	a.pageCache.InvalidateHomepage(ctx)
}
