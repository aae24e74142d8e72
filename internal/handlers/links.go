// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import "github.com/google/uuid"

// SiteLinks builds absolute URLs for imported posts from the configured
// base URL. It implements importer.Links.
type SiteLinks struct {
	BaseURL string
}

// EditURL returns the admin detail page for a post.
func (l SiteLinks) EditURL(id uuid.UUID) string {
	return l.BaseURL + "/admin/posts/" + id.String()
}

// ViewURL returns the public page for a post slug.
func (l SiteLinks) ViewURL(slug string) string {
	return l.BaseURL + "/" + slug
}
