package services

import (
	"context"
	"fmt"

	"blogicum/internal/cache"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

// CatalogService manages the records that are not edited through the web
// UI: categories, locations and whole user accounts.
type CatalogService struct {
	db        *gorm.DB
	cache     cache.Cache
	media     *MediaStore
	integrity *Integrity
}

func NewCatalogService(db *gorm.DB, c cache.Cache, media *MediaStore) *CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CatalogService{db: db, cache: c, media: media, integrity: NewIntegrity(db)}
}

func (s *CatalogService) CreateCategory(ctx context.Context, title, slug, description string, published bool) (*models.Category, error) {
	if !models.ValidSlug(slug) {
		return nil, fmt.Errorf("invalid slug %q: use letters, digits, hyphens and underscores", slug)
	}
	category := &models.Category{Title: title, Slug: slug, Description: description, IsPublished: published}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("create category %s: %w", slug, err)
	}
	s.cache.Invalidate(ctx)
	return category, nil
}

// SetCategoryPublished hides or shows a category page and, with it, every
// post filed under it.
func (s *CatalogService) SetCategoryPublished(ctx context.Context, slug string, published bool) error {
	res := s.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug).
		UpdateColumn("is_published", published)
	if res.Error != nil {
		return fmt.Errorf("update category %s: %w", slug, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return notFound("load category", err)
	}
	if err := s.integrity.DeleteCategory(ctx, category.ID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateLocation(ctx context.Context, name string, published bool) (*models.Location, error) {
	location := &models.Location{Name: name, IsPublished: published}
	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, fmt.Errorf("create location %s: %w", name, err)
	}
	return location, nil
}

func (s *CatalogService) SetLocationPublished(ctx context.Context, id uint, published bool) error {
	res := s.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).
		UpdateColumn("is_published", published)
	if res.Error != nil {
		return fmt.Errorf("update location %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteLocation(ctx context.Context, id uint) error {
	if err := s.integrity.DeleteLocation(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// DeleteUser removes an account with everything it wrote.
func (s *CatalogService) DeleteUser(ctx context.Context, username string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return notFound("load user", err)
	}
	var images []string
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ? AND image <> ?", user.ID, "").
		Pluck("image", &images).Error
	if err != nil {
		return fmt.Errorf("list images of user %d: %w", user.ID, err)
	}
	if err := s.integrity.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	for _, image := range images {
		s.media.Remove(image)
	}
	s.cache.Invalidate(ctx)
	return nil
}
