package service

import (
	"context"
	"time"

	"campushub/internal/models"
	"campushub/internal/repository"
)

// CourseHomework pairs a homework with the course it belongs to, for views
// that aggregate homeworks across a user's enrolled courses.
type CourseHomework struct {
	Course   *models.Course   `json:"course"`
	Homework *models.Homework `json:"homework"`
}

// EnrollmentService manages the membership relation between users and
// courses and the homework views derived from it.
type EnrollmentService struct {
	enrollRepo repository.EnrollmentRepository
	courseRepo repository.CourseRepository

	// nowFn is swapped out in tests.
	nowFn func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(enrollRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
		nowFn:      time.Now,
	}
}

// Enroll adds the user to the course. Enrolling twice leaves a single
// membership row.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) error {
	return s.enrollRepo.Enroll(ctx, userID, courseID)
}

// Unenroll removes the user from the course; a no-op when not enrolled.
// Neither the user nor the course is otherwise touched.
func (s *EnrollmentService) Unenroll(ctx context.Context, userID, courseID string) error {
	return s.enrollRepo.Unenroll(ctx, userID, courseID)
}

// IsEnrolled reports whether the user is currently enrolled in the course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	return s.enrollRepo.IsEnrolled(ctx, userID, courseID)
}

// EnrolledCourses returns the user's courses in enrollment order, oldest
// enrollment first.
func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID string) ([]models.Course, error) {
	return s.enrollRepo.ListCourses(ctx, userID)
}

// DueSoonHomeworks returns every homework across the user's enrolled
// courses whose deadline falls within models.DueSoonWindow of now, overdue
// included. Results are grouped by course in enrollment order; within a
// course homeworks keep their creation order.
func (s *EnrollmentService) DueSoonHomeworks(ctx context.Context, userID string) ([]CourseHomework, error) {
	return s.collectHomeworks(ctx, userID, func(h *models.Homework, now time.Time) bool {
		return h.IsDueSoon(now)
	})
}

// PendingHomeworks returns every homework not yet marked completed across
// the user's enrolled courses, in the same order as DueSoonHomeworks.
func (s *EnrollmentService) PendingHomeworks(ctx context.Context, userID string) ([]CourseHomework, error) {
	return s.collectHomeworks(ctx, userID, func(h *models.Homework, _ time.Time) bool {
		return !h.Completed
	})
}

func (s *EnrollmentService) collectHomeworks(ctx context.Context, userID string, keep func(*models.Homework, time.Time) bool) ([]CourseHomework, error) {
	courses, err := s.enrollRepo.ListCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	result := make([]CourseHomework, 0)
	for i := range courses {
		course := &courses[i]
		homeworks, err := s.courseRepo.ListHomeworks(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		for j := range homeworks {
			if keep(&homeworks[j], now) {
				result = append(result, CourseHomework{Course: course, Homework: &homeworks[j]})
			}
		}
	}
	return result, nil
}
