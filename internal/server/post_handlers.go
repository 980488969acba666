package server

import (
	"campus/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Content      string `json:"content"`
	MediaURL     string `json:"media_url,omitempty"`
	MediaCaption string `json:"media_caption,omitempty"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	author := s.currentAuthor(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody())
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		Author:       author,
		Content:      req.Content,
		MediaURL:     req.MediaURL,
		MediaCaption: req.MediaCaption,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:idOrPermalink
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	key := c.Params("idOrPermalink")
	viewer := s.currentAuthor(c)

	post, err := s.postService.GetPost(ctx, key, viewer)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	author := s.currentAuthor(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, invalidBody())
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		Author:       author,
		PostID:       postID,
		Content:      req.Content,
		MediaURL:     req.MediaURL,
		MediaCaption: req.MediaCaption,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	actor := s.currentAuthor(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, postID, actor); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
