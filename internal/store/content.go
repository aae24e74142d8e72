// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mdpress/internal/models"
)

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, title, slug, body, status, category_id, author_id,
	       source_key, published_at, created_at, updated_at`

// scanContent scans a row into a Content struct, mapping a NULL category
// to id 0.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	var catID sql.NullInt64
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Body, &c.Status, &catID,
		&c.AuthorID, &c.SourceKey, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		c.CategoryID = int(catID.Int64)
	}
	return &c, nil
}

// List returns all content items, ordered by creation date descending.
func (s *ContentStore) List() ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT ` + contentColumns + `
		FROM content
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

// ListPublished returns all published content, ordered by published date
// descending. Used for public page rendering.
func (s *ContentStore) ListPublished() ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT ` + contentColumns + `
		FROM content
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST
	`)
	if err != nil {
		return nil, fmt.Errorf("list published content: %w", err)
	}
	defer rows.Close()
	return collectContent(rows)
}

func collectContent(rows *sql.Rows) ([]models.Content, error) {
	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a published content item by its slug. Used for
// public page rendering.
func (s *ContentStore) FindBySlug(slug string) (*models.Content, error) {
	row := s.db.QueryRow(`
		SELECT `+contentColumns+` FROM content WHERE slug = $1 AND status = 'published'
	`, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new content item in a single statement and returns it
// with the generated ID. The insert either fully applies or leaves nothing
// behind; a duplicate slug or an unknown category id surfaces as an error.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	// If publishing, set the published_at timestamp.
	if c.Status == models.ContentStatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}

	// Category 0 means "no category" and is stored as NULL.
	var catID any
	if c.CategoryID > 0 {
		catID = c.CategoryID
	}

	row := s.db.QueryRow(`
		INSERT INTO content (title, slug, body, status, category_id, author_id, source_key, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+contentColumns,
		c.Title, c.Slug, c.Body, c.Status, catID, c.AuthorID, c.SourceKey, c.PublishedAt,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// SetSourceKey records the object-storage key of the archived Markdown
// source after a successful import.
func (s *ContentStore) SetSourceKey(id uuid.UUID, key string) error {
	_, err := s.db.Exec(`
		UPDATE content SET source_key = $1, updated_at = NOW() WHERE id = $2
	`, key, id)
	if err != nil {
		return fmt.Errorf("set source key: %w", err)
	}
	return nil
}

// Delete removes a content item by ID.
func (s *ContentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// Count returns the number of content items.
func (s *ContentStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return count, nil
}
