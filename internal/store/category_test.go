// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"mdpress/internal/models"
)

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := "test-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	created, err := s.Create(&models.Category{
		Name:        "Test Category",
		Slug:        slug,
		Description: "For testing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID <= 0 {
		t.Errorf("expected positive id, got %d", created.ID)
	}
	if created.Name != "Test Category" {
		t.Errorf("name: got %q, want %q", created.Name, "Test Category")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected category, got nil")
	}
	if found.Slug != slug {
		t.Errorf("slug: got %q, want %q", found.Slug, slug)
	}
}

func TestCategoryStoreFindByIDNotFound(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	found, err := s.FindByID(99999999)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestCategoryStoreFindByIDZero(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	// 0 means "no category" — resolves to nil without error.
	found, err := s.FindByID(0)
	if err != nil {
		t.Fatalf("FindByID(0): %v", err)
	}
	if found != nil {
		t.Error("expected nil for id 0")
	}
}

func TestCategoryStoreList(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := "test-list-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	if _, err := s.Create(&models.Category{Name: "Listed", Slug: slug}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var saw bool
	for _, c := range items {
		if c.Slug == slug {
			saw = true
		}
	}
	if !saw {
		t.Error("expected created category in List")
	}
}

func TestCategoryStoreListPostCount(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	contents := NewContentStore(db)
	authorID := testAuthorID(t, db)

	catSlug := "test-count-cat-" + uuid.NewString()[:8]
	postSlug := "test-count-post-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanContent(t, db, postSlug)
		cleanCategories(t, db, catSlug)
	})

	cat, err := s.Create(&models.Category{Name: "Counting", Slug: catSlug})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	if _, err := contents.Create(&models.Content{
		Title: "In category", Slug: postSlug, Body: "x",
		Status: models.ContentStatusPublished, CategoryID: cat.ID, AuthorID: authorID,
	}); err != nil {
		t.Fatalf("Create content: %v", err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, c := range items {
		if c.ID == cat.ID && c.PostCount != 1 {
			t.Errorf("post count: got %d, want 1", c.PostCount)
		}
	}
}

func TestCategoryStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	slug := "test-update-cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategories(t, db, slug) })

	created, err := s.Create(&models.Category{Name: "Before", Slug: slug})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Name = "After"
	if err := s.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, _ := s.FindByID(created.ID)
	if found == nil || found.Name != "After" {
		t.Errorf("expected updated name, got %+v", found)
	}
}

func TestCategoryStoreDeleteKeepsPosts(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	contents := NewContentStore(db)
	authorID := testAuthorID(t, db)

	catSlug := "test-del-cat-" + uuid.NewString()[:8]
	postSlug := "test-del-post-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanContent(t, db, postSlug)
		cleanCategories(t, db, catSlug)
	})

	cat, err := s.Create(&models.Category{Name: "Doomed", Slug: catSlug})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	post, err := contents.Create(&models.Content{
		Title: "Survivor", Slug: postSlug, Body: "x",
		Status: models.ContentStatusPublished, CategoryID: cat.ID, AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("Create content: %v", err)
	}

	if err := s.Delete(cat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The post survives with its category cleared (ON DELETE SET NULL).
	found, err := contents.FindByID(post.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected post to survive category deletion")
	}
	if found.CategoryID != 0 {
		t.Errorf("category: got %d, want 0 after deletion", found.CategoryID)
	}
}
