package service

import (
	"errors"
	"testing"
	"time"

	"campushub/internal/database"
	"campushub/internal/models"
	"campushub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services under test to real repositories over an
// in-memory sqlite database.
type testEnv struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
	postRepo   repository.PostRepository
	comments   repository.CommentRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return &testEnv{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		courseRepo: repository.NewCourseRepository(db),
		enrollRepo: repository.NewEnrollmentRepository(db),
		postRepo:   repository.NewPostRepository(db),
		comments:   repository.NewCommentRepository(db),
	}
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@campus.edu",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, name string) *models.Course {
	t.Helper()
	course := &models.Course{
		Name:      name,
		Professor: "Prof. " + name,
		Code:      "CS-" + name,
		Credits:   3,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedHomework(t *testing.T, db *gorm.DB, courseID, title string, due time.Time) *models.Homework {
	t.Helper()
	hw := &models.Homework{
		CourseID: courseID,
		Title:    title,
		DueAt:    due,
	}
	require.NoError(t, db.Create(hw).Error)
	return hw
}
