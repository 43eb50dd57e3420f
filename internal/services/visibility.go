package services

import (
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// PostsPerPage is the page size shared by every post listing.
const PostsPerPage = 10

// IsPubliclyVisible reports whether anyone may see p at now: the post and its
// category are published and the publication date has passed. p.Category
// must be loaded.
func IsPubliclyVisible(p *models.Post, now time.Time) bool {
	return p.IsPublished &&
		p.Category != nil && p.Category.IsPublished &&
		!p.PubDate.After(now)
}

// IsAuthor reports whether viewer wrote the record with the given author ID.
// Anonymous viewers are never authors.
func IsAuthor(authorID uint, viewer *models.User) bool {
	return viewer != nil && viewer.ID == authorID
}

// CanView combines both rules for a single post.
func CanView(p *models.Post, viewer *models.User, now time.Time) bool {
	return IsPubliclyVisible(p, now) || IsAuthor(p.AuthorID, viewer)
}

// publiclyVisible is the query form of IsPubliclyVisible.
func publiclyVisible(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date <= ?", true, true, now)
	}
}

// scheduled matches posts that will become publicly visible once their
// publication date passes.
func scheduled(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ? AND categories.is_published = ? AND posts.pub_date > ?", true, true, now)
	}
}

// withRelations preloads what list and detail pages display.
func withRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Category").Preload("Location")
}
