package server

import (
	"campus/internal/models"
	"campus/internal/service"

	"github.com/gofiber/fiber/v2"
)

func invalidBody() error {
	return models.NewValidationError("Invalid request body")
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.Context()
	actor := s.currentAuthor(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(ctx, postID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	author := s.currentAuthor(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody())
	}

	comment, err := s.engagementService.AddComment(ctx, service.AddCommentInput{
		Author:  author,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	viewer := s.currentAuthor(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)

	comments, err := s.engagementService.ListComments(ctx, postID, viewer, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(comments)
}
