package services

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/cache"
	"blogicum/internal/db"
	"blogicum/internal/models"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	posts    *PostService
	comments *CommentService
	users    *UserService
	cache    *cache.LRU
	media    *MediaStore

	category *models.Category
	hidden   *models.Category
	location *models.Location
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	lru, err := cache.NewLRU(100)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	f := &fixture{db: conn, cache: lru, media: NewMediaStore(t.TempDir()), now: time.Now().UTC()}
	f.posts = NewPostService(conn, lru, time.Minute, f.media)
	f.posts.Now = func() time.Time { return f.now }
	f.comments = NewCommentService(conn, f.posts, lru)
	f.users = NewUserService(conn, lru)

	f.category = &models.Category{Title: "Travel", Slug: "travel", IsPublished: true}
	f.hidden = &models.Category{Title: "Drafts", Slug: "drafts", IsPublished: false}
	f.location = &models.Location{Name: "Moscow", IsPublished: true}
	for _, v := range []interface{}{f.category, f.hidden, f.location} {
		if err := conn.Create(v).Error; err != nil {
			t.Fatalf("create fixture: %v", err)
		}
	}
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x"}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

type postOpt func(*models.Post)

func unpublished(p *models.Post) { p.IsPublished = false }
func uncategorized(p *models.Post) { p.CategoryID = nil }

func inCategory(c *models.Category) postOpt {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func publishedAt(t time.Time) postOpt {
	return func(p *models.Post) { p.PubDate = t }
}

func (f *fixture) post(t *testing.T, author *models.User, title string, opts ...postOpt) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:       title,
		Text:        "text of " + title,
		PubDate:     f.now.Add(-time.Hour),
		IsPublished: true,
		AuthorID:    author.ID,
		CategoryID:  &f.category.ID,
		LocationID:  &f.location.ID,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := f.db.Omit("Author", "Category", "Location").Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func (f *fixture) comment(t *testing.T, post *models.Post, author *models.User, text string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{Text: text, PostID: post.ID, AuthorID: author.ID, CreatedAt: at}
	if err := f.db.Omit("Author", "Post").Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

var ctx = context.Background()
