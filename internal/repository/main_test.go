package repository

import (
	"errors"
	"testing"
	"time"

	"campushub/internal/database"
	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive across the pool.
func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func assertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@campus.edu",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, name string) *models.Course {
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

func createPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID: author.ID,
		Title:    title,
		Content:  "content of " + title,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createHomework(t *testing.T, db *gorm.DB, courseID, title string, due time.Time) *models.Homework {
	t.Helper()
	hw := &models.Homework{
		CourseID: courseID,
		Title:    title,
		DueAt:    due,
	}
	require.NoError(t, db.Create(hw).Error)
	return hw
}
