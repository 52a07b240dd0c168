// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post. Drafts (published=false) are visible only
// through author-scoped queries.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	Excerpt   string `json:"excerpt"`
	Image     string `json:"image"`
	Published bool   `gorm:"not null;default:false;index" json:"published"`
	// ViewCount is incremented atomically on every detail fetch.
	ViewCount int  `gorm:"not null;default:0" json:"view_count"`
	AuthorID  uint `gorm:"not null;index" json:"author_id"`
	Author    User `gorm:"foreignKey:AuthorID" json:"author"`

	Tags     []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes    []Like    `gorm:"foreignKey:PostID" json:"-"`

	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// IsLiked indicates whether the current requesting user liked this post (computed)
	IsLiked bool `gorm:"->;-:migration" json:"is_liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
