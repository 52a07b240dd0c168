package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"blogged/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	user := &models.User{
		Name:     name,
		Username: strings.ToLower(strings.ReplaceAll(name, " ", "_")) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user.Password = string(hashedPassword)

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given
// author, resolving tag names the same way the API does (lowercased,
// created on first use with a random color).
func (f *Factory) CreatePost(author *models.User, tagNames []string, overrides ...func(*models.Post)) (*models.Post, error) {
	content := gofakeit.Paragraph(3, 4, 12, "\n\n")
	post := &models.Post{
		Title:     gofakeit.Sentence(6),
		Content:   content,
		Excerpt:   excerptOf(content),
		Image:     fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Published: f.r.Intn(5) > 0, // roughly one draft in five
		AuthorID:  author.ID,
	}

	// realistic created_at spread over the last 6 months
	daysBack := f.r.Intn(180)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)
	post.ViewCount = f.r.Intn(2000)

	for _, name := range tagNames {
		var tag models.Tag
		err := f.db.
			Where("name = ?", strings.ToLower(name)).
			Attrs(models.Tag{Color: fmt.Sprintf("#%06x", f.r.Intn(0x1000000))}).
			FirstOrCreate(&tag, models.Tag{Name: strings.ToLower(name)}).Error
		if err != nil {
			return nil, err
		}
		post.Tags = append(post.Tags, tag)
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a generated comment by the given user on the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(12),
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	comment.CreatedAt = post.CreatedAt.Add(time.Duration(f.r.Intn(72)) * time.Hour)

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	return f.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error
}
