package server

import (
	"blogged/internal/models"
	"blogged/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePage(c)
	userID, _ := s.optionalUserID(c)

	posts, total, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Search:        c.Query("search"),
		Tag:           c.Query("tag"),
		Sort:          c.Query("sort"),
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": page.meta(total),
	})
}

// GetPost handles GET /api/posts/:id. Every successful fetch counts a view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/posts/user/:username
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	userID, _ := s.optionalUserID(c)

	user, posts, err := s.postService.GetUserPosts(c.Context(), username, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"posts": posts,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Excerpt   string   `json:"excerpt"`
		Image     string   `json:"image"`
		Published bool     `json:"published"`
		Tags      []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  currentUserID(c),
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Image:     req.Image,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title     *string   `json:"title"`
		Content   *string   `json:"content"`
		Excerpt   *string   `json:"excerpt"`
		Image     *string   `json:"image"`
		Published *bool     `json:"published"`
		Tags      *[]string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, updateErr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		AuthorID:  currentUserID(c),
		PostID:    id,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Image:     req.Image,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if updateErr != nil {
		return models.RespondWithAppError(c, updateErr)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.postService.DeletePost(c.Context(), currentUserID(c), id); delErr != nil {
		return models.RespondWithAppError(c, delErr)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, likeErr := s.postService.ToggleLike(c.Context(), currentUserID(c), id)
	if likeErr != nil {
		return models.RespondWithAppError(c, likeErr)
	}

	return c.JSON(fiber.Map{
		"liked":      post.IsLiked,
		"likesCount": post.LikesCount,
	})
}

// GetTags handles GET /api/posts/tags/all
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.postService.ListTags(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(tags)
}

// GetAnalytics handles GET /api/posts/analytics
func (s *Server) GetAnalytics(c *fiber.Ctx) error {
	analytics, err := s.postService.GetAnalytics(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(analytics)
}
