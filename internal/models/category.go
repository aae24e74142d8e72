// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// UncategorizedName is the display label used when a post has no category
// or its category id no longer resolves to a row.
const UncategorizedName = "Uncategorized"

// Category represents a content category. Categories use plain integer
// identifiers; id 0 is reserved to mean "no category" and never exists
// as a row. Posts can have at most one category assigned.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    *int      `json:"parent_id"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	PostCount int `json:"post_count"`
}
