// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mdpress/internal/cache"
	"mdpress/internal/models"
	"mdpress/internal/store"
)

//go:embed templates/public/*.html
var publicFS embed.FS

// Public groups handlers for the public-facing site. It checks the Valkey
// page cache before rendering, and stores rendered results on miss.
type Public struct {
	siteName     string
	templates    *template.Template
	contentStore *store.ContentStore
	pageCache    *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(siteName string, contentStore *store.ContentStore, pageCache *cache.PageCache) (*Public, error) {
	tmpl, err := template.ParseFS(publicFS, "templates/public/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse public templates: %w", err)
	}
	return &Public{
		siteName:     siteName,
		templates:    tmpl,
		contentStore: contentStore,
		pageCache:    pageCache,
	}, nil
}

// Homepage renders the list of published posts, newest first.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.HomepageKey()); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	posts, err := p.contentStore.ListPublished()
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, err := p.render("home.html", map[string]any{
		"SiteName": p.siteName,
		"Posts":    posts,
	})
	if err != nil {
		slog.Error("homepage render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.HomepageKey(), rendered)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rendered)
}

// Page renders a published post by its slug.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if cached, ok := p.pageCache.Get(ctx, cache.SlugKey(slugParam)); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	content, err := p.contentStore.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if content == nil {
		http.NotFound(w, r)
		return
	}

	rendered, err := p.renderPost(content)
	if err != nil {
		slog.Error("render post failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, cache.SlugKey(slugParam), rendered)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rendered)
}

// renderPost renders the post template. The body is imported HTML that was
// produced by the Markdown renderer at import time, so it is injected
// unescaped on purpose.
func (p *Public) renderPost(content *models.Content) ([]byte, error) {
	return p.render("post.html", map[string]any{
		"SiteName": p.siteName,
		"Post":     content,
		"Body":     template.HTML(content.Body),
	})
}

func (p *Public) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
