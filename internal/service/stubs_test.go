package service

import (
	"context"
	"errors"
	"testing"

	"blogged/internal/models"
	"blogged/internal/repository"

	"github.com/stretchr/testify/assert"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	existsFn          func(context.Context, uint) (bool, error)
	incrementViewFn   func(context.Context, uint) error
	listPublishedFn   func(context.Context, repository.PostFilter, uint) ([]*models.Post, int64, error)
	listByAuthorFn    func(context.Context, uint, uint) ([]*models.Post, error)
	listAllByAuthorFn func(context.Context, uint) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	likeFn            func(context.Context, uint, uint) error
	unlikeFn          func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewFn(ctx, id)
}
func (s *postRepoStub) ListPublished(ctx context.Context, f repository.PostFilter, currentUserID uint) ([]*models.Post, int64, error) {
	return s.listPublishedFn(ctx, f, currentUserID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, currentUserID)
}
func (s *postRepoStub) ListAllByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.listAllByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		existsFn:        func(_ context.Context, _ uint) (bool, error) { return true, nil },
		incrementViewFn: func(_ context.Context, _ uint) error { return nil },
		listPublishedFn: func(_ context.Context, _ repository.PostFilter, _ uint) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn:    func(_ context.Context, _, _ uint) ([]*models.Post, error) { return nil, nil },
		listAllByAuthorFn: func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:            func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:          func(_ context.Context, _, _ uint) error { return nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	findOrCreateFn   func(context.Context, []string) ([]models.Tag, error)
	replaceForPostFn func(context.Context, *models.Post, []models.Tag) error
	listWithCountsFn func(context.Context) ([]models.Tag, error)
}

func (s *tagRepoStub) FindOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.findOrCreateFn(ctx, names)
}
func (s *tagRepoStub) ReplaceForPost(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return s.replaceForPostFn(ctx, post, tags)
}
func (s *tagRepoStub) ListWithCounts(ctx context.Context) ([]models.Tag, error) {
	return s.listWithCountsFn(ctx)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		findOrCreateFn:   func(_ context.Context, _ []string) ([]models.Tag, error) { return nil, nil },
		replaceForPostFn: func(_ context.Context, _ *models.Post, _ []models.Tag) error { return nil },
		listWithCountsFn: func(_ context.Context) ([]models.Tag, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn              func(context.Context, *models.User) error
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByIdentifierFn     func(context.Context, string) (*models.User, error)
	getByEmailOrUsernameFn func(context.Context, string, string) (*models.User, error)
	usernameTakenFn       func(context.Context, string, uint) (bool, error)
	getWithCountsFn       func(context.Context, uint) (*models.User, error)
	getProfileFn          func(context.Context, string) (*models.User, error)
	updateFn              func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.getByIdentifierFn(ctx, identifier)
}
func (s *userRepoStub) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return s.getByEmailOrUsernameFn(ctx, email, username)
}
func (s *userRepoStub) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return s.usernameTakenFn(ctx, username, excludeID)
}
func (s *userRepoStub) GetWithCounts(ctx context.Context, id uint) (*models.User, error) {
	return s.getWithCountsFn(ctx, id)
}
func (s *userRepoStub) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.getProfileFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getByIdentifierFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailOrUsernameFn: func(_ context.Context, _, _ string) (*models.User, error) { return nil, nil },
		usernameTakenFn:        func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
		getWithCountsFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getProfileFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error { c.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}
