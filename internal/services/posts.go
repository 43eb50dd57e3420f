package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/forms"
	"blogicum/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostService struct {
	db        *gorm.DB
	cache     cache.Cache
	ttl       time.Duration
	media     *MediaStore
	integrity *Integrity

	// Now is the clock used for publication checks.
	Now func() time.Time
}

func NewPostService(db *gorm.DB, c cache.Cache, ttl time.Duration, media *MediaStore) *PostService {
	if c == nil {
		c = cache.Nop{}
	}
	return &PostService{
		db:        db,
		cache:     c,
		ttl:       ttl,
		media:     media,
		integrity: NewIntegrity(db),
		Now:       time.Now,
	}
}

func (s *PostService) now() time.Time {
	return s.Now().UTC()
}

// cachedListing is a cached page together with the moment it goes stale:
// the configured TTL or the next scheduled publication in its scope,
// whichever comes first.
type cachedListing struct {
	Page  *Page     `json:"page"`
	Until time.Time `json:"until"`
}

// cachedPage serves a public listing page from the cache, filling it on a
// miss. filter narrows the publicly visible posts to the listing's scope.
func (s *PostService) cachedPage(ctx context.Context, key string, filter func(*gorm.DB) *gorm.DB, page int) (*Page, error) {
	now := s.now()
	if data, ok := s.cache.Get(ctx, key); ok {
		var listing cachedListing
		if err := json.Unmarshal(data, &listing); err == nil && listing.Page != nil && now.Before(listing.Until) {
			return listing.Page, nil
		}
	}

	p, err := paginate(ctx, s.db, func(tx *gorm.DB) *gorm.DB {
		return filter(publiclyVisible(now)(tx))
	}, page)
	if err != nil {
		return nil, err
	}
	ttl, err := s.entryTTL(ctx, filter, now)
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		if data, err := json.Marshal(cachedListing{Page: p, Until: now.Add(ttl)}); err == nil {
			s.cache.Set(ctx, key, data, ttl)
		}
	}
	return p, nil
}

// entryTTL caps the cache lifetime at the next scheduled post in scope.
func (s *PostService) entryTTL(ctx context.Context, filter func(*gorm.DB) *gorm.DB, now time.Time) (time.Duration, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	var next models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(scheduled(now), filter).
		Select("posts.pub_date").
		Order("posts.pub_date ASC").
		Take(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.ttl, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find next scheduled post: %w", err)
	}
	if wait := next.PubDate.Sub(now); wait < s.ttl {
		return wait, nil
	}
	return s.ttl, nil
}

func allPosts(tx *gorm.DB) *gorm.DB { return tx }

// ListPublished returns one page of the index: every publicly visible post.
func (s *PostService) ListPublished(ctx context.Context, page int) (*Page, error) {
	return s.cachedPage(ctx, fmt.Sprintf("index:%d", page), allPosts, page)
}

// ListByCategory returns publicly visible posts of a published category.
// Unknown and unpublished categories yield ErrNotFound.
func (s *PostService) ListByCategory(ctx context.Context, slug string, page int) (*models.Category, *Page, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, nil, notFound("load category", err)
	}

	key := fmt.Sprintf("category:%d:%d", category.ID, page)
	p, err := s.cachedPage(ctx, key, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("posts.category_id = ?", category.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return &category, p, nil
}

// ListByAuthor returns the posts of username. The author sees every own post;
// other viewers see only publicly visible ones.
func (s *PostService) ListByAuthor(ctx context.Context, username string, viewer *models.User, page int) (*models.User, *Page, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, nil, notFound("load author", err)
	}

	owner := IsAuthor(author.ID, viewer)
	now := s.now()
	p, err := paginate(ctx, s.db, func(tx *gorm.DB) *gorm.DB {
		if !owner {
			tx = publiclyVisible(now)(tx)
		}
		return tx.Where("posts.author_id = ?", author.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return &author, p, nil
}

func (s *PostService) load(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Scopes(withRelations).First(&post, id).Error; err != nil {
		return nil, notFound("load post", err)
	}
	return &post, nil
}

// Get returns the post if viewer may see it, ErrNotFound otherwise.
func (s *PostService) Get(ctx context.Context, id uint, viewer *models.User) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(post, viewer, s.now()) {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetOwned returns the post for mutation by actor: ErrNotFound if it does
// not exist, ErrNotOwner if actor did not write it.
func (s *PostService) GetOwned(ctx context.Context, id uint, actor *models.User) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsAuthor(post.AuthorID, actor) {
		return nil, ErrNotOwner
	}
	return post, nil
}

// Categories and Locations list the choices offered by the post form.
func (s *PostService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, notFound("list categories", err)
	}
	return categories, nil
}

func (s *PostService) Locations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.WithContext(ctx).Where("is_published = ?", true).Order("name ASC").Find(&locations).Error; err != nil {
		return nil, notFound("list locations", err)
	}
	return locations, nil
}

// PublishedCategories lists the categories that have a public page.
func (s *PostService) PublishedCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Where("is_published = ?", true).Order("title ASC").Find(&categories).Error; err != nil {
		return nil, notFound("list published categories", err)
	}
	return categories, nil
}

// RecentPublic returns at most limit publicly visible posts, newest first.
func (s *PostService) RecentPublic(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(publiclyVisible(s.now())).
		Select("posts.*").
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, notFound("list recent posts", err)
	}
	return posts, nil
}

// apply validates form against the schema and copies it onto post.
func (s *PostService) apply(ctx context.Context, post *models.Post, form *forms.PostForm) error {
	errs := forms.Errors{}

	pubDate, err := form.ParsedPubDate()
	if err != nil {
		errs.Add("pub_date", "Enter a valid date/time.")
	}

	var categoryID, locationID *uint
	if form.CategoryID != 0 {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", form.CategoryID).Count(&count).Error
		if err != nil {
			return fmt.Errorf("check category %d: %w", form.CategoryID, err)
		}
		if count == 0 {
			errs.Add("category", "Select a valid choice.")
		}
		id := form.CategoryID
		categoryID = &id
	}
	if form.LocationID != 0 {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", form.LocationID).Count(&count).Error
		if err != nil {
			return fmt.Errorf("check location %d: %w", form.LocationID, err)
		}
		if count == 0 {
			errs.Add("location", "Select a valid choice.")
		}
		id := form.LocationID
		locationID = &id
	}
	if form.Image != nil {
		if err := s.media.Check(form.Image); err != nil {
			errs.Add("image", err.Error())
		}
	}
	if len(errs) > 0 {
		return errs
	}

	post.Title = form.Title
	post.Text = form.Text
	post.PubDate = pubDate
	post.IsPublished = form.IsPublished
	post.CategoryID = categoryID
	post.LocationID = locationID
	return nil
}

// Create stores a new post written by actor. The author is always actor.
func (s *PostService) Create(ctx context.Context, actor *models.User, form *forms.PostForm) (*models.Post, error) {
	post := &models.Post{AuthorID: actor.ID}
	if err := s.apply(ctx, post, form); err != nil {
		return nil, err
	}

	if form.Image != nil {
		path, err := s.media.SavePostImage(form.Image)
		if err != nil {
			return nil, err
		}
		post.Image = path
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		s.media.Remove(post.Image)
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.cache.Invalidate(ctx)

	post.Author = *actor
	return post, nil
}

// Update applies form to a post owned by actor.
func (s *PostService) Update(ctx context.Context, id uint, actor *models.User, form *forms.PostForm) (*models.Post, error) {
	post, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, post, form); err != nil {
		return post, err
	}

	oldImage := post.Image
	if form.Image != nil {
		path, err := s.media.SavePostImage(form.Image)
		if err != nil {
			return post, err
		}
		post.Image = path
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		if post.Image != oldImage {
			s.media.Remove(post.Image)
			post.Image = oldImage
		}
		return post, fmt.Errorf("update post %d: %w", id, err)
	}
	if post.Image != oldImage {
		s.media.Remove(oldImage)
	}
	s.cache.Invalidate(ctx)
	return s.load(ctx, id)
}

// Delete removes a post owned by actor together with its comments.
func (s *PostService) Delete(ctx context.Context, id uint, actor *models.User) error {
	post, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.integrity.DeletePost(ctx, post.ID); err != nil {
		return err
	}
	s.media.Remove(post.Image)
	s.cache.Invalidate(ctx)
	return nil
}
