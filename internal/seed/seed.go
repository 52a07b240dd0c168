// Package seed provides database seeding utilities for development and
// testing. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"blogged/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var tagNames = []string{
	"go", "javascript", "typescript", "python", "rust", "databases",
	"devops", "testing", "architecture", "frontend", "backend", "career",
	"productivity", "open-source", "security", "cloud", "tutorials",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		tags := pickTags(r, 1+r.Intn(3))
		post, err := f.CreatePost(author, tags)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	commentCount := 0
	likeCount := 0
	for _, post := range posts {
		if !post.Published {
			continue
		}
		for i := 0; i < r.Intn(5); i++ {
			if _, err := f.CreateComment(users[r.Intn(len(users))], post); err != nil {
				return fmt.Errorf("failed to create comments: %w", err)
			}
			commentCount++
		}
		for _, u := range users {
			if r.Intn(4) == 0 {
				if err := f.CreateLike(u, post); err != nil {
					return fmt.Errorf("failed to create likes: %w", err)
				}
				likeCount++
			}
		}
	}
	log.Printf("%d comments and %d likes created", commentCount, likeCount)

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, post_tags, posts, tags, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func pickTags(r *rand.Rand, n int) []string {
	picked := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for len(tags) < n {
		name := tagNames[r.Intn(len(tagNames))]
		if picked[name] {
			continue
		}
		picked[name] = true
		tags = append(tags, name)
	}
	return tags
}

// excerptOf trims content down to a short listing blurb.
func excerptOf(content string) string {
	const max = 160
	content = strings.TrimSpace(content)
	if len(content) <= max {
		return content
	}
	cut := strings.LastIndex(content[:max], " ")
	if cut <= 0 {
		cut = max
	}
	return content[:cut] + "..."
}
