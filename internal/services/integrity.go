package services

import (
	"context"
	"fmt"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// Integrity performs deletes that keep references consistent regardless of
// the foreign key support of the underlying database:
//
//   - a post takes its comments with it;
//   - a user takes their posts and comments (and comments on those posts);
//   - a category or location is detached from its posts, which survive.
type Integrity struct {
	db *gorm.DB
}

func NewIntegrity(db *gorm.DB) *Integrity {
	return &Integrity{db: db}
}

func (i *Integrity) DeletePost(ctx context.Context, postID uint) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", postID, err)
		}
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return fmt.Errorf("delete post %d: %w", postID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (i *Integrity) DeleteUser(ctx context.Context, userID uint) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", userID)
		if err := tx.Where("author_id = ? OR post_id IN (?)", userID, ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of user %d: %w", userID, err)
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts of user %d: %w", userID, err)
		}
		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (i *Integrity) DeleteCategory(ctx context.Context, categoryID uint) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).Where("category_id = ?", categoryID).
			UpdateColumn("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts from category %d: %w", categoryID, err)
		}
		res := tx.Delete(&models.Category{}, categoryID)
		if res.Error != nil {
			return fmt.Errorf("delete category %d: %w", categoryID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (i *Integrity) DeleteLocation(ctx context.Context, locationID uint) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).Where("location_id = ?", locationID).
			UpdateColumn("location_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach posts from location %d: %w", locationID, err)
		}
		res := tx.Delete(&models.Location{}, locationID)
		if res.Error != nil {
			return fmt.Errorf("delete location %d: %w", locationID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
