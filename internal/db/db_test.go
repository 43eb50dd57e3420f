package db

import (
	"testing"

	"blogicum/internal/models"

	"go.uber.org/zap"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", ""); err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	conn, err := Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	log := zap.NewNop()

	if err := Seed(conn, log); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if err := Seed(conn, log); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}

	var categories, locations int64
	conn.Model(&models.Category{}).Count(&categories)
	conn.Model(&models.Location{}).Count(&locations)
	if categories != 3 || locations != 3 {
		t.Errorf("Expected 3 categories and 3 locations, got %d and %d", categories, locations)
	}
}

func TestCategoryRejectsInvalidSlug(t *testing.T) {
	conn, err := Open("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	err = conn.Create(&models.Category{Title: "Bad", Slug: "not a slug"}).Error
	if err == nil {
		t.Fatal("Expected invalid slug to be rejected")
	}
}

func TestSeedReportsDatabaseErrors(t *testing.T) {
	conn, err := Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	if err := Seed(conn, zap.NewNop()); err == nil {
		t.Error("Expected Seed to fail on a closed database")
	}
}
