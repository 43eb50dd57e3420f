package models

import (
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether s may be used as a category URL segment.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	IsPublished bool      `gorm:"not null" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if !ValidSlug(c.Slug) {
		return fmt.Errorf("invalid category slug %q", c.Slug)
	}
	return nil
}
