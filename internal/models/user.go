// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an author account. The password column holds a bcrypt
// hash and is never serialized.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`

	// PostsCount, CommentsCount and LikesCount are not persisted; they are
	// computed at query time for profile responses.
	PostsCount    int `gorm:"->;-:migration" json:"posts_count"`
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	LikesCount    int `gorm:"->;-:migration" json:"likes_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
	Likes    []Like    `gorm:"foreignKey:UserID" json:"-"`
}
