package models

import "time"

// Tag labels posts. Names are normalized to lowercase before lookup so
// uniqueness is effectively case-insensitive. Color is assigned once at
// creation and never changes.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Color string `json:"color"`

	// PostsCount is not persisted; computed for the tag listing
	PostsCount int `gorm:"->;-:migration" json:"posts_count"`

	CreatedAt time.Time `json:"created_at"`

	Posts []Post `gorm:"many2many:post_tags;" json:"-"`
}
