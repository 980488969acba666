package server

import (
	"campus/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReviewQueue handles GET /api/review
func (s *Server) GetReviewQueue(c *fiber.Ctx) error {
	ctx := c.Context()
	reviewer := s.currentAuthor(c)
	page := parsePagination(c, 20)

	items, err := s.reviewService.List(ctx, reviewer, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(items)
}

// ResolveReview handles POST /api/review/:postId
func (s *Server) ResolveReview(c *fiber.Ctx) error {
	ctx := c.Context()
	reviewer := s.currentAuthor(c)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody())
	}

	post, err := s.reviewService.Resolve(ctx, service.ResolveInput{
		Reviewer: reviewer,
		PostID:   postID,
		Decision: req.Decision,
		Reason:   req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}
