package repository

import (
	"context"
	"strings"

	"blogged/internal/cache"
	"blogged/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows the published-post listing.
type PostFilter struct {
	Search string
	Tag    string
	Sort   string // "newest" (default), "oldest" or "popular"
	Limit  int
	Offset int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID loads a post with author, tags, comments (newest first) and
	// computed counts. currentUserID resolves is_liked; 0 means anonymous.
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	// Exists reports whether a post with the given id exists.
	Exists(ctx context.Context, id uint) (bool, error)
	// IncrementViewCount atomically bumps view_count by one.
	IncrementViewCount(ctx context.Context, id uint) error
	// ListPublished returns a page of published posts matching the filter,
	// plus the total match count.
	ListPublished(ctx context.Context, f PostFilter, currentUserID uint) ([]*models.Post, int64, error)
	// ListByAuthor returns the author's published posts, newest first.
	ListByAuthor(ctx context.Context, authorID uint, currentUserID uint) ([]*models.Post, error)
	// ListAllByAuthor returns every post by the author, drafts included,
	// with computed counts. Used for analytics.
	ListAllByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	// A new published post shifts the per-tag counts.
	cache.InvalidateTags(ctx)
	return nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 as is_liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	// UpdateColumn keeps updated_at untouched; a view is not an edit.
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// publishedScope applies the published flag plus optional search and tag filters.
func publishedScope(f PostFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("posts.published = ?", true)
		if f.Search != "" {
			// LOWER(...) LIKE keeps the match case-insensitive on both
			// PostgreSQL and the sqlite test harness.
			like := "%" + strings.ToLower(f.Search) + "%"
			db = db.Where(
				"(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?)",
				like, like, like,
			)
		}
		if f.Tag != "" {
			db = db.Where(
				"posts.id IN (SELECT post_tags.post_id FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE tags.name = ?)",
				strings.ToLower(f.Tag),
			)
		}
		return db
	}
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count is a SELECT alias from applyPostDetails; both PostgreSQL and
// sqlite allow referencing it in ORDER BY within the same query level.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "oldest":
		return db.Order("posts.created_at ASC")
	case "popular":
		return db.Order("likes_count DESC, posts.created_at DESC")
	default: // "newest" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

func (r *postRepository) ListPublished(ctx context.Context, f PostFilter, currentUserID uint) ([]*models.Post, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(f)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{}), currentUserID).
		Scopes(publishedScope(f)).
		Preload("Author").
		Preload("Tags")
	err = applySort(base, f.Sort).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Preload("Tags").
		Where("posts.author_id = ? AND posts.published = ?", authorID, true).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListAllByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), 0).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "excerpt", "image", "published").
		Updates(post).Error
	if err != nil {
		return err
	}
	// Publish-state flips change which posts the tag counts cover.
	cache.InvalidateTags(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	// Dependent rows never outlive the post: likes and tag links are removed
	// here, comments follow the post's soft delete.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		cache.InvalidateTags(ctx)
		return nil
	})
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// ON CONFLICT DO NOTHING makes concurrent double-toggles race-safe.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, PostID: postID}).Error
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
}
