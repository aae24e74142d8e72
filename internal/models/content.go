// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// Content represents a post in the CMS. The body holds rendered HTML;
// the Markdown it was imported from is archived in object storage under
// SourceKey when archiving is configured.
type Content struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Status      ContentStatus `json:"status"`
	CategoryID  int           `json:"category_id"` // 0 = no category
	AuthorID    uuid.UUID     `json:"author_id"`
	SourceKey   *string       `json:"source_key,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// BodySize returns a human-readable size of the stored body.
func (c *Content) BodySize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	n := len(c.Body)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.0f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
