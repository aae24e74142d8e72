// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"mdpress/internal/cache"
	"mdpress/internal/importer"
	"mdpress/internal/middleware"
	"mdpress/internal/models"
	"mdpress/internal/render"
)

// maxImportSize caps the multipart request body for imports (10 MB).
const maxImportSize = 10 << 20

// importExecutor runs one Markdown import. Satisfied by *importer.Pipeline.
type importExecutor interface {
	Execute(ctx context.Context, req *importer.Request, authorID uuid.UUID) (*importer.Result, error)
}

// categoryLister provides the categories shown in the import form.
// Satisfied by *store.CategoryStore.
type categoryLister interface {
	List() ([]*models.Category, error)
}

// Import groups the Markdown import HTTP handlers.
type Import struct {
	renderer   *render.Renderer
	pipeline   importExecutor
	categories categoryLister
	pageCache  *cache.PageCache
}

// NewImport creates the import handler group. pageCache may be nil.
func NewImport(renderer *render.Renderer, pipeline importExecutor, categories categoryLister, pageCache *cache.PageCache) *Import {
	return &Import{
		renderer:   renderer,
		pipeline:   pipeline,
		categories: categories,
		pageCache:  pageCache,
	}
}

// importResponse is the JSON body returned by ImportSubmit.
type importResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Logs    []string `json:"logs,omitempty"`
}

// ImportPage renders the import form.
func (h *Import) ImportPage(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		slog.Error("list categories for import failed", "error", err)
	}

	h.renderer.Page(w, r, "import", &render.PageData{
		Title:   "Import Markdown",
		Section: "import",
		Data:    map[string]any{"Categories": categories},
	})
}

// ImportSubmit processes an import submission and responds with JSON.
// The request is multipart form data; the import runs synchronously and
// the full log trail is returned on success.
func (h *Import) ImportSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeImportJSON(w, http.StatusBadRequest, &importResponse{
			Success: false,
			Message: fmt.Sprintf("File upload error: %v", err),
		})
		return
	}

	req := buildImportRequest(r)

	result, err := h.pipeline.Execute(r.Context(), req, sess.UserID)
	if err != nil {
		writeImportJSON(w, importErrorStatus(err), &importResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	// The homepage lists recent posts, so a successful import changes it.
	if h.pageCache != nil {
		h.pageCache.InvalidateHomepage(r.Context())
	}

	slog.Info("markdown import completed",
		"post_id", result.PostID,
		"title", req.Title,
		"method", req.Method,
		"user", sess.Email,
	)

	writeImportJSON(w, http.StatusOK, &importResponse{
		Success: true,
		Message: fmt.Sprintf(
			`Post imported successfully! <a href="%s" target="_blank">Edit Post</a> | <a href="%s" target="_blank">View Post</a>`,
			result.EditURL, result.ViewURL,
		),
		Logs: result.Logs,
	})
}

// buildImportRequest maps the multipart form onto an importer.Request.
// It only shapes data; all validation happens in the importer package.
func buildImportRequest(r *http.Request) *importer.Request {
	categoryID, _ := strconv.Atoi(r.FormValue("post_category"))

	req := &importer.Request{
		Title:      r.FormValue("post_title"),
		CategoryID: categoryID,
		Method:     importer.Method(r.FormValue("import_method")),
		PastedText: r.FormValue("markdown_paste"),
	}

	if req.Method != importer.MethodUpload {
		return req
	}

	file, header, err := r.FormFile("markdown_file")
	if err != nil {
		// Missing file stays nil so validation reports "No file uploaded."
		return req
	}
	defer file.Close()

	uploaded := &importer.UploadedFile{
		Filename: header.Filename,
		Size:     header.Size,
	}
	if data, readErr := io.ReadAll(file); readErr != nil {
		uploaded.Err = readErr
	} else {
		uploaded.Data = data
	}
	req.File = uploaded

	return req
}

// importErrorStatus maps pipeline error types to HTTP status codes.
func importErrorStatus(err error) int {
	var verr *importer.ValidationError
	var rerr *importer.RenderError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &rerr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeImportJSON(w http.ResponseWriter, status int, resp *importResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("write import response failed", "error", err)
	}
}
