package repository

import (
	"context"
	"testing"
	"time"

	"blogged/internal/cache"
	"blogged/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_IncrementViewCount(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author, "First", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementViewCount(ctx, post.ID))
	}

	got, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ViewCount)
}

func TestPostRepository_GetByID_Details(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author, "Detailed", true)

	require.NoError(t, db.Create(&models.Comment{Content: "first", PostID: post.ID, AuthorID: reader.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "second", PostID: post.ID, AuthorID: author.ID}).Error)
	require.NoError(t, repo.Like(ctx, reader.ID, post.ID))

	t.Run("as the liker", func(t *testing.T) {
		got, err := repo.GetByID(ctx, post.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.CommentsCount)
		assert.Equal(t, 1, got.LikesCount)
		assert.True(t, got.IsLiked)
		assert.Equal(t, author.Username, got.Author.Username)
		assert.Len(t, got.Comments, 2)
	})

	t.Run("anonymous", func(t *testing.T) {
		got, err := repo.GetByID(ctx, post.ID, 0)
		require.NoError(t, err)
		assert.False(t, got.IsLiked)
		assert.Equal(t, 1, got.LikesCount)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999, 0)
		assert.Error(t, err)
	})
}

func TestPostRepository_ListPublished(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	liker := createTestUser(t, db, "liker")

	oldest := createTestPost(t, db, author, "Gardening for beginners", true)
	db.Model(oldest).UpdateColumn("created_at", time.Now().Add(-48*time.Hour))

	popular := createTestPost(t, db, author, "Ocean photography", true)
	db.Model(popular).UpdateColumn("created_at", time.Now().Add(-24*time.Hour))
	require.NoError(t, repo.Like(ctx, liker.ID, popular.ID))

	newest := createTestPost(t, db, author, "Sourdough notes", true)
	createTestPost(t, db, author, "Unfinished draft", false)

	tags, err := tagRepo.FindOrCreateByNames(ctx, []string{"Nature"})
	require.NoError(t, err)
	require.NoError(t, tagRepo.ReplaceForPost(ctx, popular, tags))

	t.Run("drafts excluded", func(t *testing.T) {
		posts, total, err := repo.ListPublished(ctx, PostFilter{Limit: 10, Sort: "newest"}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, posts, 3)
		assert.Equal(t, newest.ID, posts[0].ID)
	})

	t.Run("oldest sort", func(t *testing.T) {
		posts, _, err := repo.ListPublished(ctx, PostFilter{Limit: 10, Sort: "oldest"}, 0)
		require.NoError(t, err)
		assert.Equal(t, oldest.ID, posts[0].ID)
	})

	t.Run("popular sort", func(t *testing.T) {
		posts, _, err := repo.ListPublished(ctx, PostFilter{Limit: 10, Sort: "popular"}, 0)
		require.NoError(t, err)
		assert.Equal(t, popular.ID, posts[0].ID)
		assert.Equal(t, 1, posts[0].LikesCount)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		posts, total, err := repo.ListPublished(ctx, PostFilter{Search: "OCEAN", Limit: 10}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, posts, 1)
		assert.Equal(t, popular.ID, posts[0].ID)
	})

	t.Run("tag filter", func(t *testing.T) {
		posts, total, err := repo.ListPublished(ctx, PostFilter{Tag: "nature", Limit: 10}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, posts, 1)
		assert.Equal(t, popular.ID, posts[0].ID)
	})

	t.Run("pagination never duplicates", func(t *testing.T) {
		seen := map[uint]bool{}
		for offset := 0; offset < 4; offset += 2 {
			posts, total, err := repo.ListPublished(ctx, PostFilter{Limit: 2, Offset: offset, Sort: "newest"}, 0)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			for _, p := range posts {
				assert.False(t, seen[p.ID], "post %d returned twice", p.ID)
				seen[p.ID] = true
			}
		}
		assert.Len(t, seen, 3)
	})
}

func TestPostRepository_LikeUnlike(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author, "Likeable", true)

	liked, err := repo.IsLiked(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.Like(ctx, reader.ID, post.ID))
	// Second like is a no-op, not a constraint violation.
	require.NoError(t, repo.Like(ctx, reader.ID, post.ID))

	liked, err = repo.IsLiked(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var count int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Unlike(ctx, reader.ID, post.ID))
	liked, err = repo.IsLiked(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestPostRepository_Delete_RemovesDependents(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	post := createTestPost(t, db, author, "Doomed", true)

	tags, err := tagRepo.FindOrCreateByNames(ctx, []string{"temp"})
	require.NoError(t, err)
	require.NoError(t, tagRepo.ReplaceForPost(ctx, post, tags))
	require.NoError(t, repo.Like(ctx, reader.ID, post.ID))
	require.NoError(t, db.Create(&models.Comment{Content: "bye", PostID: post.ID, AuthorID: reader.ID}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err = repo.GetByID(ctx, post.ID, 0)
	assert.Error(t, err)

	var likes, links int64
	db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likes)
	db.Table("post_tags").Where("post_id = ?", post.ID).Count(&links)
	assert.Zero(t, likes)
	assert.Zero(t, links)

	// The tag itself survives; tags are shared and never cascade.
	var tagCount int64
	db.Model(&models.Tag{}).Where("name = ?", "temp").Count(&tagCount)
	assert.Equal(t, int64(1), tagCount)
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	createTestPost(t, db, author, "Mine published", true)
	createTestPost(t, db, author, "Mine draft", false)
	createTestPost(t, db, other, "Not mine", true)

	posts, err := repo.ListByAuthor(ctx, author.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Mine published", posts[0].Title)

	all, err := repo.ListAllByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Not parallel: swaps the package-level redis client.
func TestPostRepository_WritesInvalidateTagCache(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	author := createTestUser(t, db, "tagauthor")

	warm := func() {
		t.Helper()
		require.NoError(t, mr.Set(cache.TagsKey, `[]`))
	}

	warm()
	post := &models.Post{Title: "Draft", Content: "Body", AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, post))
	assert.False(t, mr.Exists(cache.TagsKey), "create should drop the tag cache")

	warm()
	post.Published = true
	require.NoError(t, repo.Update(ctx, post))
	assert.False(t, mr.Exists(cache.TagsKey), "publish flip should drop the tag cache")

	warm()
	require.NoError(t, repo.Delete(ctx, post.ID))
	assert.False(t, mr.Exists(cache.TagsKey), "delete should drop the tag cache")
}
