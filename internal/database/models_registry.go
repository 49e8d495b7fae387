package database

import "campushub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Course{},
		&models.ClassTime{},
		&models.Homework{},
		&models.CourseComment{},
		&models.Post{},
		&models.PostComment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Enrollment{},
	}
}
