package repository

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"blogged/internal/cache"
	"blogged/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	// FindOrCreateByNames resolves tag names to rows, creating any that do
	// not exist yet. Names are lowercased and deduplicated; new tags get a
	// random display color.
	FindOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error)
	// ReplaceForPost swaps the post's tag set for the given one.
	ReplaceForPost(ctx context.Context, post *models.Post, tags []models.Tag) error
	// ListWithCounts returns all tags with their published-post counts,
	// most used first.
	ListWithCounts(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// randomColor picks a hex color for a freshly created tag.
func randomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

func (r *tagRepository) FindOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := r.db.WithContext(ctx).
			Where("name = ?", name).
			Attrs(models.Tag{Color: randomColor()}).
			FirstOrCreate(&tag, models.Tag{Name: name}).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if len(tags) > 0 {
		cache.InvalidateTags(ctx)
	}
	return tags, nil
}

func (r *tagRepository) ReplaceForPost(ctx context.Context, post *models.Post, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags); err != nil {
		return err
	}
	post.Tags = tags
	cache.InvalidateTags(ctx)
	return nil
}

func (r *tagRepository) ListWithCounts(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := cache.Aside(ctx, cache.TagsKey, &tags, cache.TagsTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Tag{}).
			Select("tags.*, "+
				"(SELECT COUNT(*) FROM post_tags JOIN posts ON posts.id = post_tags.post_id "+
				"WHERE post_tags.tag_id = tags.id AND posts.published = ? AND posts.deleted_at IS NULL) as posts_count", true).
			Order("posts_count DESC, tags.name ASC").
			Find(&tags).Error
	})
	return tags, err
}
