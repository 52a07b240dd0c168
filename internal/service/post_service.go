package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogged/internal/models"
	"blogged/internal/repository"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID  uint
	Title     string
	Content   string
	Excerpt   string
	Image     string
	Published bool
	Tags      []string
}

// UpdatePostInput carries a partial edit. Nil pointers leave the stored
// value untouched; a non-nil Tags replaces the whole tag set.
type UpdatePostInput struct {
	AuthorID  uint
	PostID    uint
	Title     *string
	Content   *string
	Excerpt   *string
	Image     *string
	Published *bool
	Tags      *[]string
}

type ListPostsInput struct {
	Search        string
	Tag           string
	Sort          string
	Limit         int
	Offset        int
	CurrentUserID uint
}

// MonthlyStat is one month's worth of posting activity.
type MonthlyStat struct {
	Month string `json:"month"`
	Posts int    `json:"posts"`
	Views int    `json:"views"`
	Likes int    `json:"likes"`
}

type TopPost struct {
	Title string `json:"title"`
	Views int    `json:"views"`
	Likes int    `json:"likes"`
}

type Analytics struct {
	TotalViews        int64         `json:"totalViews"`
	TotalLikes        int64         `json:"totalLikes"`
	TotalComments     int64         `json:"totalComments"`
	AverageEngagement float64       `json:"averageEngagement"`
	TopPost           TopPost       `json:"topPost"`
	MonthlyStats      []MonthlyStat `json:"monthlyStats"`
}

func NewPostService(postRepo repository.PostRepository, tagRepo repository.TagRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		userRepo: userRepo,
	}
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	filter := repository.PostFilter{
		Search: in.Search,
		Tag:    in.Tag,
		Sort:   in.Sort,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	return s.postRepo.ListPublished(ctx, filter, in.CurrentUserID)
}

// GetPost returns the post with the view already counted. Every fetch is a
// view, the author's own included.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	if err := s.postRepo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	tags, err := s.tagRepo.FindOrCreateByNames(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Image:     in.Image,
		Published: in.Published,
		AuthorID:  in.AuthorID,
		Tags:      tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if post.AuthorID != in.AuthorID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Image != nil {
		post.Image = *in.Image
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if in.Tags != nil {
		tags, err := s.tagRepo.FindOrCreateByNames(ctx, *in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.tagRepo.ReplaceForPost(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(ctx, in.PostID, in.AuthorID)
}

func (s *PostService) DeletePost(ctx context.Context, authorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}

	if post.AuthorID != authorID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on the post and returns the refreshed
// post. A like on a missing post is a not-found, never a silent no-op.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.Post, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

func (s *PostService) GetUserPosts(ctx context.Context, username string, currentUserID uint) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("User", username)
		}
		return nil, nil, err
	}

	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, currentUserID)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

func (s *PostService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.ListWithCounts(ctx)
}

// GetAnalytics aggregates the caller's posts, drafts included. The monthly
// breakdown covers the last six calendar months up to now.
func (s *PostService) GetAnalytics(ctx context.Context, userID uint) (*Analytics, error) {
	posts, err := s.postRepo.ListAllByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		TopPost:      TopPost{Title: "No posts yet"},
		MonthlyStats: make([]MonthlyStat, 0, 6),
	}

	topEngagement := -1
	for _, p := range posts {
		a.TotalViews += int64(p.ViewCount)
		a.TotalLikes += int64(p.LikesCount)
		a.TotalComments += int64(p.CommentsCount)

		engagement := p.LikesCount + p.CommentsCount
		if engagement > topEngagement {
			topEngagement = engagement
			a.TopPost = TopPost{
				Title: p.Title,
				Views: p.ViewCount,
				Likes: p.LikesCount,
			}
		}
	}

	if len(posts) > 0 {
		a.AverageEngagement = float64(a.TotalLikes+a.TotalComments) / float64(len(posts))
	}

	a.MonthlyStats = monthlyStats(posts, time.Now())
	return a, nil
}

// monthlyStats buckets posts by creation month over the six months ending
// at now. Likes and views are attributed to the post's creation month.
func monthlyStats(posts []*models.Post, now time.Time) []MonthlyStat {
	type bucket struct {
		posts int
		views int
		likes int
	}
	buckets := make(map[string]*bucket, 6)

	// Anchor on the first of the month so AddDate never skips a short month.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, 6)
	for i := range months {
		months[i] = first.AddDate(0, i-5, 0)
		buckets[months[i].Format("2006-01")] = &bucket{}
	}

	for _, p := range posts {
		key := p.CreatedAt.Format("2006-01")
		if b, ok := buckets[key]; ok {
			b.posts++
			b.views += p.ViewCount
			b.likes += p.LikesCount
		}
	}

	stats := make([]MonthlyStat, 0, 6)
	for _, m := range months {
		b := buckets[m.Format("2006-01")]
		stats = append(stats, MonthlyStat{
			Month: m.Format("Jan"),
			Posts: b.posts,
			Views: b.views,
			Likes: b.likes,
		})
	}
	return stats
}
