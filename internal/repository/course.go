package repository

import (
	"context"
	"errors"

	"campushub/internal/cache"
	"campushub/internal/models"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for course data operations,
// including the owned ClassTime, Homework, and CourseComment collections.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error

	AddClassTime(ctx context.Context, classTime *models.ClassTime) error
	AddHomework(ctx context.Context, homework *models.Homework) error
	SetHomeworkCompleted(ctx context.Context, homeworkID string, completed bool) error
	ListHomeworks(ctx context.Context, courseID string) ([]models.Homework, error)
	ListPendingHomeworks(ctx context.Context, courseID string) ([]models.Homework, error)

	AddComment(ctx context.Context, comment *models.CourseComment) error
	ListComments(ctx context.Context, courseID string) ([]models.CourseComment, error)
	AverageRating(ctx context.Context, courseID string) (float64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads the course with its class times and homeworks and computes
// the derived fields. AverageRating is recomputed on every read rather than
// cached, so it can never go stale after a new rating.
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("ClassTimes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Homeworks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Course", id)
		}
		return nil, models.NewInternalError(err)
	}

	avg, err := r.AverageRating(ctx, id)
	if err != nil {
		return nil, err
	}
	course.AverageRating = avg

	var enrolled int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", id).Count(&enrolled).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	course.EnrolledCount = int(enrolled)

	return &course, nil
}

func (r *courseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *courseRepository) List(ctx context.Context, limit, offset int) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("name").Find(&courses).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return courses, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCourse(ctx, course.ID)
	return nil
}

// Delete removes the course and cascades to everything it owns: class times,
// homeworks, and course comments. Enrollment is a non-owning relation, so
// enrolled users survive; their enrollment rows are dropped and their
// denormalized course id lists are regenerated from the live relation.
// A dangling enrollment row pointing at a missing user aborts the whole
// transaction with an integrity violation.
func (r *courseRepository) Delete(ctx context.Context, id string) error {
	var affectedUserIDs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Course", id)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Enrollment{}).Where("course_id = ?", id).
			Pluck("user_id", &affectedUserIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		steps := []*gorm.DB{
			tx.Where("course_id = ?", id).Delete(&models.ClassTime{}),
			tx.Where("course_id = ?", id).Delete(&models.Homework{}),
			tx.Where("course_id = ?", id).Delete(&models.CourseComment{}),
			tx.Where("course_id = ?", id).Delete(&models.Enrollment{}),
			tx.Where("id = ?", id).Delete(&models.Course{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return models.NewInternalError(step.Error)
			}
		}

		for _, userID := range affectedUserIDs {
			var user models.User
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewIntegrityViolationError(
						"enrollment references a user that no longer exists", err)
				}
				return models.NewInternalError(err)
			}
			if err := refreshEnrolledCourseIDs(tx, &user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateCourse(ctx, id)
	for _, userID := range affectedUserIDs {
		cache.InvalidateUser(ctx, userID)
	}
	return nil
}

func (r *courseRepository) AddClassTime(ctx context.Context, classTime *models.ClassTime) error {
	return r.addOwned(ctx, classTime.CourseID, classTime)
}

func (r *courseRepository) AddHomework(ctx context.Context, homework *models.Homework) error {
	return r.addOwned(ctx, homework.CourseID, homework)
}

// addOwned inserts a course-owned row after checking the owner exists.
func (r *courseRepository) addOwned(ctx context.Context, courseID string, row any) error {
	exists, err := r.Exists(ctx, courseID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Course", courseID)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCourse(ctx, courseID)
	return nil
}

func (r *courseRepository) SetHomeworkCompleted(ctx context.Context, homeworkID string, completed bool) error {
	result := r.db.WithContext(ctx).Model(&models.Homework{}).
		Where("id = ?", homeworkID).Update("completed", completed)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Homework", homeworkID)
	}
	return nil
}

// ListHomeworks returns the course's homeworks in add order.
func (r *courseRepository) ListHomeworks(ctx context.Context, courseID string) ([]models.Homework, error) {
	exists, err := r.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Course", courseID)
	}

	var homeworks []models.Homework
	if err := r.db.WithContext(ctx).Where("course_id = ?", courseID).
		Order("created_at, id").Find(&homeworks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return homeworks, nil
}

// ListPendingHomeworks returns the course's not-yet-completed homeworks in
// add order.
func (r *courseRepository) ListPendingHomeworks(ctx context.Context, courseID string) ([]models.Homework, error) {
	exists, err := r.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Course", courseID)
	}

	var homeworks []models.Homework
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND completed = ?", courseID, false).
		Order("created_at, id").Find(&homeworks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return homeworks, nil
}

func (r *courseRepository) AddComment(ctx context.Context, comment *models.CourseComment) error {
	exists, err := r.Exists(ctx, comment.CourseID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Course", comment.CourseID)
	}

	var authors int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", comment.AuthorID).Count(&authors).Error; err != nil {
		return models.NewInternalError(err)
	}
	if authors == 0 {
		return models.NewNotFoundError("User", comment.AuthorID)
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCourse(ctx, comment.CourseID)
	return nil
}

func (r *courseRepository) ListComments(ctx context.Context, courseID string) ([]models.CourseComment, error) {
	exists, err := r.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Course", courseID)
	}

	var comments []models.CourseComment
	if err := r.db.WithContext(ctx).Preload("Author").
		Where("course_id = ?", courseID).Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// AverageRating is the mean of all comment ratings on the course, 0 when no
// comments exist.
func (r *courseRepository) AverageRating(ctx context.Context, courseID string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&models.CourseComment{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return avg, nil
}
