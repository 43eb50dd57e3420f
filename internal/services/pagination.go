package services

import (
	"context"
	"math"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

type Page struct {
	Posts      []models.Post `json:"posts"`
	Number     int           `json:"number"`
	TotalPages int           `json:"total_pages"`
	Total      int64         `json:"total"`
}

func (p *Page) HasPrev() bool { return p.Number > 1 }
func (p *Page) HasNext() bool { return p.Number < p.TotalPages }
func (p *Page) PrevNumber() int { return p.Number - 1 }
func (p *Page) NextNumber() int { return p.Number + 1 }

// paginate runs query for the requested page, clamped into range, newest
// publication first, with comment counts filled in.
func paginate(ctx context.Context, conn *gorm.DB, query func(*gorm.DB) *gorm.DB, page int) (*Page, error) {
	var total int64
	if err := query(conn.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, notFound("count posts", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(PostsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var posts []models.Post
	err := query(conn.WithContext(ctx).Model(&models.Post{})).
		Select("posts.*").
		Scopes(withRelations).
		Order("posts.pub_date DESC").
		Order("posts.id DESC").
		Limit(PostsPerPage).
		Offset((page - 1) * PostsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, notFound("list posts", err)
	}

	if err := fillCommentCounts(ctx, conn, posts); err != nil {
		return nil, err
	}

	return &Page{Posts: posts, Number: page, TotalPages: totalPages, Total: total}, nil
}

// fillCommentCounts annotates posts with their comment counts in one query.
func fillCommentCounts(ctx context.Context, conn *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := conn.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return notFound("count comments", err)
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}
