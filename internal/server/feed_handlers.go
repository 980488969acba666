package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	viewer := s.currentAuthor(c)

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	posts, err := s.feedService.GetFeed(ctx, viewer, page, pageSize)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// GetTrending handles GET /api/trending
func (s *Server) GetTrending(c *fiber.Ctx) error {
	ctx := c.Context()
	windowDays := c.QueryInt("window_days", 0)

	posts, err := s.feedService.GetTrending(ctx, windowDays)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}
