package server

import (
	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		Gender    string `json:"gender"`
		AvatarRef string `json:"avatar_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Gender != "" {
		gender := models.Gender(req.Gender)
		if !gender.IsValid() {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("gender must be one of female, male, other"))
		}
		user.Gender = gender
	}
	if req.AvatarRef != "" {
		user.AvatarRef = req.AvatarRef
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetMyFlags handles GET /api/users/me/flags. It returns the feature flags
// evaluated for the authenticated user.
func (s *Server) GetMyFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(currentUserID(c)),
	})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me. Deleting an account removes
// the user's posts, comments, likes, course reviews and enrollments in one
// transaction.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userRepo.Delete(c.Context(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
