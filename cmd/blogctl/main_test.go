package main

import (
	"context"
	"errors"
	"testing"

	"blogicum/internal/db"
	"blogicum/internal/models"
	"blogicum/internal/services"
)

func TestRunCategoryCommands(t *testing.T) {
	conn, err := db.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	catalog := services.NewCatalogService(conn, nil, services.NewMediaStore(t.TempDir()))
	ctx := context.Background()

	if err := run(ctx, catalog, []string{"category", "add", "-title", "Books", "-slug", "books", "-hidden"}); err != nil {
		t.Fatalf("category add: %v", err)
	}
	var category models.Category
	conn.Where("slug = ?", "books").First(&category)
	if category.Title != "Books" || category.IsPublished {
		t.Fatalf("Unexpected category %+v", category)
	}

	if err := run(ctx, catalog, []string{"category", "publish", "books"}); err != nil {
		t.Fatalf("category publish: %v", err)
	}
	conn.First(&category, category.ID)
	if !category.IsPublished {
		t.Error("Expected category to be published")
	}

	if err := run(ctx, catalog, []string{"category", "delete", "books"}); err != nil {
		t.Fatalf("category delete: %v", err)
	}
	if err := run(ctx, catalog, []string{"category", "delete", "books"}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	cases := [][]string{
		{"category"},
		{"category", "add", "-slug", "x"},
		{"location", "delete", "abc"},
		{"planet", "add"},
	}
	for _, args := range cases {
		if err := run(ctx, nil, args); err == nil {
			t.Errorf("Expected an error for %v", args)
		}
	}
}
