package services

import (
	"context"
	"fmt"

	"blogicum/internal/cache"
	"blogicum/internal/forms"
	"blogicum/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentService struct {
	db    *gorm.DB
	posts *PostService
	cache cache.Cache
}

func NewCommentService(db *gorm.DB, posts *PostService, c cache.Cache) *CommentService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CommentService{db: db, posts: posts, cache: c}
}

// ListForPost returns the comments of a post, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, notFound("list comments", err)
	}
	return comments, nil
}

// Create adds a comment by actor to a post actor can see. Author and post
// come from the caller, never from the form.
func (s *CommentService) Create(ctx context.Context, postID uint, actor *models.User, form *forms.CommentForm) (*models.Comment, *models.Post, error) {
	post, err := s.posts.Get(ctx, postID, actor)
	if err != nil {
		return nil, nil, err
	}

	comment := &models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: actor.ID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}
	s.cache.Invalidate(ctx)

	comment.Author = *actor
	return comment, post, nil
}

// GetOwned returns a comment of post postID for mutation by actor:
// ErrNotFound if no such comment exists on that post, ErrNotOwner if actor
// did not write it.
func (s *CommentService) GetOwned(ctx context.Context, postID, commentID uint, actor *models.User) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		return nil, notFound("load comment", err)
	}
	if !IsAuthor(comment.AuthorID, actor) {
		return nil, ErrNotOwner
	}
	return &comment, nil
}

func (s *CommentService) Update(ctx context.Context, postID, commentID uint, actor *models.User, form *forms.CommentForm) (*models.Comment, error) {
	comment, err := s.GetOwned(ctx, postID, commentID, actor)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(comment).UpdateColumn("text", form.Text).Error
	if err != nil {
		return nil, fmt.Errorf("update comment %d: %w", commentID, err)
	}
	comment.Text = form.Text
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, postID, commentID uint, actor *models.User) error {
	comment, err := s.GetOwned(ctx, postID, commentID, actor)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Comment{}, comment.ID).Error; err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	s.cache.Invalidate(ctx)
	return nil
}
