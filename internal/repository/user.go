// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"blogged/internal/cache"
	"blogged/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIdentifier looks a user up by email or username. Returns (nil, nil)
	// when no user matches.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// GetByEmailOrUsername returns any user holding either value, or (nil, nil).
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	// UsernameTaken reports whether username belongs to a user other than excludeID.
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	// GetWithCounts loads a user by id with posts/comments/likes counts populated.
	GetWithCounts(ctx context.Context, id uint) (*models.User, error)
	// GetProfile loads a user by username with counts populated.
	GetProfile(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

// applyUserCounts adds subqueries computing the aggregate counts shown on
// profile responses in a single query.
func (r *userRepository) applyUserCounts(db *gorm.DB) *gorm.DB {
	return db.Select("users.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.deleted_at IS NULL) as posts_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.author_id = users.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.user_id = users.id) as likes_count")
}

func (r *userRepository) GetWithCounts(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.applyUserCounts(r.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetProfile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.ProfileKey(username), &user, cache.ProfileTTL, func() error {
		return r.applyUserCounts(r.db.WithContext(ctx)).
			Where("username = ?", username).
			First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, user.Username)
	return nil
}
