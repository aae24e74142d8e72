// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer implements the Markdown import pipeline: it validates an
// inbound submission (file upload or pasted text), normalizes it into a
// canonical payload, renders the Markdown to HTML, and commits the result as
// a published post. Each run produces an ordered log trail shown to the
// admin on success.
//
// The pipeline is transport-independent. Its collaborators (Markdown
// renderer, content store, category lookup, link builder, source archiver)
// are injected as interfaces, and a single Execute call runs the whole
// import synchronously with no state shared across calls.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mdpress/internal/models"
	"mdpress/internal/slug"
)

// Renderer converts Markdown source text into HTML. It must be
// deterministic for identical input and free of side effects.
type Renderer interface {
	Render(source string) (string, error)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(string) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(source string) (string, error) { return f(source) }

// ContentStore persists content records. Create must be atomic: either a
// full record exists with an identifier afterwards, or nothing changed.
type ContentStore interface {
	Create(c *models.Content) (*models.Content, error)
	SetSourceKey(id uuid.UUID, key string) error
}

// CategoryStore resolves category ids to rows. FindByID returns (nil, nil)
// when the id does not resolve.
type CategoryStore interface {
	FindByID(id int) (*models.Category, error)
}

// Links builds the edit and view URLs returned on success. URL layout is
// the transport's business, so the pipeline treats it as a capability.
type Links interface {
	EditURL(id uuid.UUID) string
	ViewURL(slug string) string
}

// Archiver stores the raw Markdown source of a successful import.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) error
}

// Result is the success outcome of one import call.
type Result struct {
	PostID  uuid.UUID
	EditURL string
	ViewURL string
	Logs    []string
}

// Pipeline orchestrates a single Markdown import.
type Pipeline struct {
	renderer   Renderer
	content    ContentStore
	categories CategoryStore
	links      Links
	archiver   Archiver // nil when object storage is not configured
}

// New creates an import pipeline with the given collaborators.
// archiver may be nil; source archival is then skipped.
func New(renderer Renderer, content ContentStore, categories CategoryStore, links Links, archiver Archiver) *Pipeline {
	return &Pipeline{
		renderer:   renderer,
		content:    content,
		categories: categories,
		links:      links,
		archiver:   archiver,
	}
}

// Execute runs one import: validate → normalize → render → commit → report.
// The caller must already be authenticated and authorized; the pipeline
// does not check identity. It returns either a Result or exactly one of
// *ValidationError, *RenderError, *StoreError. Log lines accumulated before
// a failure are discarded — only the success path surfaces the log.
func (p *Pipeline) Execute(ctx context.Context, req *Request, authorID uuid.UUID) (*Result, error) {
	logs := []string{"Request received. Starting process..."}

	norm, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	logs = append(logs, fmt.Sprintf("Title set to: %s", norm.Title))
	switch req.Method {
	case MethodUpload:
		logs = append(logs, fmt.Sprintf("File uploaded successfully: %s", req.File.Filename))
	case MethodPaste:
		logs = append(logs, "Processing pasted text content.")
	}
	logs = append(logs,
		fmt.Sprintf("Content loaded. Size: %s", humanSize(norm.ByteSize)),
		fmt.Sprintf("Processing %d lines of Markdown...", norm.LineCount),
	)

	html, err := p.renderer.Render(norm.Source)
	if err != nil {
		return nil, &RenderError{Detail: err.Error()}
	}
	logs = append(logs, "Markdown converted to HTML successfully.")

	// Resolve the category display name for the log. The numeric id passes
	// through to the record regardless of whether the lookup succeeded;
	// id 0 means "no category".
	categoryName := models.UncategorizedName
	if norm.CategoryID > 0 {
		if cat, err := p.categories.FindByID(norm.CategoryID); err == nil && cat != nil {
			categoryName = cat.Name
		}
	}
	logs = append(logs, fmt.Sprintf("Assigning Category: %s", categoryName))

	record := &models.Content{
		Title:      norm.Title,
		Slug:       slug.ForImport(norm.Title),
		Body:       html,
		Status:     models.ContentStatusPublished,
		CategoryID: norm.CategoryID,
		AuthorID:   authorID,
	}

	created, err := p.content.Create(record)
	if err != nil || created == nil || created.ID == uuid.Nil {
		if err != nil {
			slog.Error("import insert failed", "title", norm.Title, "error", err)
		}
		return nil, &StoreError{}
	}
	logs = append(logs, fmt.Sprintf("Success! Post created (ID: %s).", created.ID))

	p.archiveSource(ctx, created.ID, norm)

	return &Result{
		PostID:  created.ID,
		EditURL: p.links.EditURL(created.ID),
		ViewURL: p.links.ViewURL(created.Slug),
		Logs:    logs,
	}, nil
}

// archiveSource stores the raw Markdown in object storage, best-effort.
// Failures are logged and never affect the import outcome.
func (p *Pipeline) archiveSource(ctx context.Context, id uuid.UUID, norm *Normalized) {
	if p.archiver == nil {
		return
	}

	now := time.Now()
	key := fmt.Sprintf("imports/%d/%02d/%s.md", now.Year(), now.Month(), id)

	if err := p.archiver.Archive(ctx, key, []byte(norm.Source)); err != nil {
		slog.Warn("source archive failed", "post_id", id, "key", key, "error", err)
		return
	}
	if err := p.content.SetSourceKey(id, key); err != nil {
		slog.Warn("source key update failed", "post_id", id, "key", key, "error", err)
	}
}
