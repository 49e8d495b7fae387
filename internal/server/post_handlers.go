package server

import (
	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageRef string `json:"image_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), currentUserID(c), req.Title, req.Content, req.ImageRef)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	viewerID, _ := s.optionalUserID(c)
	posts, err := s.postService.Feed(c.Context(), p.Limit, p.Offset, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.UserPosts(c.Context(), c.Params("id"), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageRef string `json:"image_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), currentUserID(c), c.Params("id"),
		req.Title, req.Content, req.ImageRef)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	if err := s.engagementService.LikePost(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": true})
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	if err := s.engagementService.UnlikePost(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.Context(), currentUserID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)
	comments, err := s.postService.Comments(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	if err := s.postService.DeleteComment(c.Context(), currentUserID(c), c.Params("commentId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment handles POST /api/posts/:id/comments/:commentId/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	if err := s.engagementService.LikeComment(c.Context(), currentUserID(c), c.Params("commentId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": true})
}

// UnlikeComment handles DELETE /api/posts/:id/comments/:commentId/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	if err := s.engagementService.UnlikeComment(c.Context(), currentUserID(c), c.Params("commentId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}
