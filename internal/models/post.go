package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"` // future dates delay publication
	Image       string    `json:"image"`                          // path relative to the media root
	IsPublished bool      `gorm:"not null" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	LocationID  *uint     `gorm:"index" json:"location_id"`
	Location    *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"location"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	CreatedAt   time.Time `json:"created_at"`

	// filled by list queries
	CommentCount int `gorm:"-" json:"comment_count"`
}

// BeforeSave stores publication dates in UTC so that range filters compare
// consistently across drivers.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.PubDate = p.PubDate.UTC()
	return nil
}
