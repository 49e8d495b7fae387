package server

import (
	"time"

	"campushub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse handles POST /api/courses
func (s *Server) CreateCourse(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Professor   string `json:"professor"`
		Code        string `json:"code"`
		Credits     int    `json:"credits"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Course name is required"))
	}

	course := &models.Course{
		Name:        req.Name,
		Professor:   req.Professor,
		Code:        req.Code,
		Credits:     req.Credits,
		Description: req.Description,
	}
	if err := s.courseRepo.Create(c.Context(), course); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// GetCourses handles GET /api/courses
func (s *Server) GetCourses(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	courses, err := s.courseRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// GetCourse handles GET /api/courses/:id
func (s *Server) GetCourse(c *fiber.Ctx) error {
	course, err := s.courseRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(course)
}

// DeleteCourse handles DELETE /api/courses/:id. Deleting a course drops its
// class times, homeworks, comments and every enrollment pointing at it;
// enrolled users stay and just lose the reference.
func (s *Server) DeleteCourse(c *fiber.Ctx) error {
	if err := s.courseRepo.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddClassTime handles POST /api/courses/:id/class-times
func (s *Server) AddClassTime(c *fiber.Ctx) error {
	var req struct {
		DayOfWeek int    `json:"day_of_week"`
		StartsAt  string `json:"starts_at"`
		EndsAt    string `json:"ends_at"`
		Location  string `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("day_of_week must be between 1 (Monday) and 7 (Sunday)"))
	}

	classTime := &models.ClassTime{
		CourseID:  c.Params("id"),
		DayOfWeek: req.DayOfWeek,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Location:  req.Location,
	}
	if err := s.courseRepo.AddClassTime(c.Context(), classTime); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(classTime)
}

// AddHomework handles POST /api/courses/:id/homeworks
func (s *Server) AddHomework(c *fiber.Ctx) error {
	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueAt       time.Time `json:"due_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Homework title is required"))
	}

	homework := &models.Homework{
		CourseID:    c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	}
	if err := s.courseRepo.AddHomework(c.Context(), homework); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(homework)
}

// GetCourseHomeworks handles GET /api/courses/:id/homeworks
func (s *Server) GetCourseHomeworks(c *fiber.Ctx) error {
	homeworks, err := s.courseRepo.ListHomeworks(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"homeworks": homeworks})
}

// GetCoursePendingHomeworks handles GET /api/courses/:id/homeworks/pending
func (s *Server) GetCoursePendingHomeworks(c *fiber.Ctx) error {
	homeworks, err := s.courseRepo.ListPendingHomeworks(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"homeworks": homeworks})
}

// SetHomeworkCompleted handles PUT /api/courses/:id/homeworks/:homeworkId/completed
func (s *Server) SetHomeworkCompleted(c *fiber.Ctx) error {
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.courseRepo.SetHomeworkCompleted(c.Context(), c.Params("homeworkId"), req.Completed); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"completed": req.Completed})
}

// RateCourse handles POST /api/courses/:id/comments
func (s *Server) RateCourse(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
		Rating  int    `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.engagementService.AddCourseRating(c.Context(), c.Params("id"),
		currentUserID(c), req.Content, req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetCourseComments handles GET /api/courses/:id/comments
func (s *Server) GetCourseComments(c *fiber.Ctx) error {
	comments, err := s.courseRepo.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	avg, err := s.courseRepo.AverageRating(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"comments":       comments,
		"average_rating": avg,
	})
}

// Enroll handles POST /api/courses/:id/enroll
func (s *Server) Enroll(c *fiber.Ctx) error {
	if err := s.enrollmentService.Enroll(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"enrolled": true})
}

// Unenroll handles DELETE /api/courses/:id/enroll
func (s *Server) Unenroll(c *fiber.Ctx) error {
	if err := s.enrollmentService.Unenroll(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"enrolled": false})
}

// GetMyCourses handles GET /api/users/me/courses
func (s *Server) GetMyCourses(c *fiber.Ctx) error {
	courses, err := s.enrollmentService.EnrolledCourses(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}

// GetDueSoonHomeworks handles GET /api/users/me/homeworks/due-soon
func (s *Server) GetDueSoonHomeworks(c *fiber.Ctx) error {
	homeworks, err := s.enrollmentService.DueSoonHomeworks(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"homeworks": homeworks})
}

// GetPendingHomeworks handles GET /api/users/me/homeworks/pending
func (s *Server) GetPendingHomeworks(c *fiber.Ctx) error {
	homeworks, err := s.enrollmentService.PendingHomeworks(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"homeworks": homeworks})
}
