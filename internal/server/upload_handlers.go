package server

import (
	"github.com/gofiber/fiber/v2"
)

// Upload handles POST /api/upload. File storage is not implemented yet, so
// the handler accepts the request and returns a configured placeholder URL.
// TODO: store uploads in object storage and return the real URL.
func (s *Server) Upload(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"url": s.config.UploadURL,
	})
}
