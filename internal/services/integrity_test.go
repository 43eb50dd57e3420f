package services

import (
	"testing"

	"blogicum/internal/models"
)

func TestDeleteCategoryDetachesPosts(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	post := f.post(t, alice, "travel")

	if err := NewIntegrity(f.db).DeleteCategory(ctx, f.category.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	var stored models.Post
	if err := f.db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("Expected post to survive: %v", err)
	}
	if stored.CategoryID != nil {
		t.Errorf("Expected category to be nulled, got %d", *stored.CategoryID)
	}
	if err := NewIntegrity(f.db).DeleteCategory(ctx, f.category.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteLocationDetachesPosts(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	post := f.post(t, alice, "somewhere")

	if err := NewIntegrity(f.db).DeleteLocation(ctx, f.location.ID); err != nil {
		t.Fatalf("DeleteLocation failed: %v", err)
	}

	var stored models.Post
	if err := f.db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("Expected post to survive: %v", err)
	}
	if stored.LocationID != nil {
		t.Errorf("Expected location to be nulled, got %d", *stored.LocationID)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	alicePost := f.post(t, alice, "alice's")
	bobPost := f.post(t, bob, "bob's")
	f.comment(t, alicePost, bob, "bob on alice", f.now)
	f.comment(t, bobPost, alice, "alice on bob", f.now)
	f.comment(t, bobPost, bob, "bob on bob", f.now)

	if err := NewIntegrity(f.db).DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	var posts []models.Post
	f.db.Find(&posts)
	if len(posts) != 1 || posts[0].ID != bobPost.ID {
		t.Errorf("Expected only bob's post left, got %v", titles(posts))
	}

	var comments []models.Comment
	f.db.Find(&comments)
	if len(comments) != 1 || comments[0].Text != "bob on bob" {
		t.Errorf("Expected only bob's comment on his own post, got %+v", comments)
	}

	if err := f.db.First(&models.User{}, alice.ID).Error; err == nil {
		t.Error("Expected alice to be deleted")
	}
}
