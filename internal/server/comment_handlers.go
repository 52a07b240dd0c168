package server

import (
	"blogged/internal/models"
	"blogged/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/post/:postId
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	page := parsePage(c)
	comments, total, listErr := s.commentService.ListComments(c.Context(), postID, page.Limit, page.Offset)
	if listErr != nil {
		return models.RespondWithAppError(c, listErr)
	}

	return c.JSON(fiber.Map{
		"comments":   comments,
		"pagination": page.meta(total),
	})
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PostID  uint   `json:"postId"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postId is required"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		AuthorID: currentUserID(c),
		PostID:   req.PostID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, updateErr := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		AuthorID:  currentUserID(c),
		CommentID: id,
		Content:   req.Content,
	})
	if updateErr != nil {
		return models.RespondWithAppError(c, updateErr)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.commentService.DeleteComment(c.Context(), currentUserID(c), id); delErr != nil {
		return models.RespondWithAppError(c, delErr)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
