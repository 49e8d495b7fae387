package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"campushub/internal/cache"
	"campushub/internal/models"

	"gorm.io/gorm"
)

// EnrollmentRepository maintains the user-course enrollment relation and its
// denormalized projection on the user row.
type EnrollmentRepository interface {
	Enroll(ctx context.Context, userID, courseID string) error
	Unenroll(ctx context.Context, userID, courseID string) error
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
	// ListCourses returns the user's enrolled courses in enrollment order.
	ListCourses(ctx context.Context, userID string) ([]models.Course, error)
	// ReconcileEnrollments replaces the user's enrollment set with exactly
	// enrolledCourseIDs, creating the given courses locally first where they
	// are missing. A non-empty username overwrites the local one. The whole
	// replacement is one transaction.
	ReconcileEnrollments(ctx context.Context, userID, username string, courses []models.Course, enrolledCourseIDs []string) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Enroll adds the course to the user's enrollment set. Re-enrolling is a
// no-op. An unknown course fails with an enrollment error, an unknown user
// with not found; either way nothing is written.
func (r *enrollmentRepository) Enroll(ctx context.Context, userID, courseID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewEnrollmentError(courseID)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}

		enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			FirstOrCreate(&enrollment).Error; err != nil {
			return models.NewInternalError(err)
		}

		return refreshEnrolledCourseIDs(tx, &user)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	return nil
}

// Unenroll removes the enrollment if present. Neither the user nor the
// course is deleted; a missing enrollment is a no-op.
func (r *enrollmentRepository) Unenroll(ctx context.Context, userID, courseID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&models.Enrollment{}).Error; err != nil {
			return models.NewInternalError(err)
		}

		return refreshEnrolledCourseIDs(tx, &user)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	return nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListCourses returns enrolled courses ordered by when the user enrolled.
func (r *enrollmentRepository) ListCourses(ctx context.Context, userID string) ([]models.Course, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if count == 0 {
		return nil, models.NewNotFoundError("User", userID)
	}

	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at, id").Find(&enrollments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(enrollments) == 0 {
		return nil, nil
	}

	byID := make(map[string]models.Course, len(enrollments))
	var courses []models.Course
	courseIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, c := range courses {
		byID[c.ID] = c
	}

	// Preserve enrollment order.
	ordered := make([]models.Course, 0, len(enrollments))
	for _, e := range enrollments {
		if c, ok := byID[e.CourseID]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// ReconcileEnrollments makes the user's local enrollment rows match
// enrolledCourseIDs exactly. Courses not yet known locally are created from
// the supplied payloads before any enrollment row changes; missing payloads
// are an integrity violation. If any step fails nothing is written.
func (r *enrollmentRepository) ReconcileEnrollments(ctx context.Context, userID, username string, courses []models.Course, enrolledCourseIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewInternalError(err)
		}

		if username != "" && username != user.Username {
			if err := tx.Model(&user).Update("username", username).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		for i := range courses {
			var count int64
			if err := tx.Model(&models.Course{}).Where("id = ?", courses[i].ID).
				Count(&count).Error; err != nil {
				return models.NewInternalError(err)
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&courses[i]).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		for _, courseID := range enrolledCourseIDs {
			var count int64
			if err := tx.Model(&models.Course{}).Where("id = ?", courseID).
				Count(&count).Error; err != nil {
				return models.NewInternalError(err)
			}
			if count == 0 {
				return models.NewIntegrityViolationError(
					fmt.Sprintf("course %s missing while reconciling enrollments", courseID), nil)
			}
		}

		drop := tx.Where("user_id = ?", userID)
		if len(enrolledCourseIDs) > 0 {
			drop = drop.Where("course_id NOT IN ?", enrolledCourseIDs)
		}
		if err := drop.Delete(&models.Enrollment{}).Error; err != nil {
			return models.NewInternalError(err)
		}

		for _, courseID := range enrolledCourseIDs {
			enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
			if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
				FirstOrCreate(&enrollment).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		return refreshEnrolledCourseIDs(tx, &user)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	return nil
}

// refreshEnrolledCourseIDs regenerates the denormalized id list from the
// live enrollment relation: unique ids in ascending order. This is the only
// writer of the field, so it cannot diverge from the relation.
func refreshEnrolledCourseIDs(tx *gorm.DB, user *models.User) error {
	var ids []string
	if err := tx.Model(&models.Enrollment{}).Where("user_id = ?", user.ID).
		Pluck("course_id", &ids).Error; err != nil {
		return models.NewInternalError(err)
	}
	sort.Strings(ids)
	if ids == nil {
		ids = []string{}
	}

	user.EnrolledCourseIDs = ids
	if err := tx.Model(user).Select("enrolled_course_ids").Updates(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
