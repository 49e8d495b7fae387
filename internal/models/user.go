// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is the self-reported gender on a user profile.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderOther       Gender = "other"
)

// IsValid reports whether the gender is one of the accepted values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderUnspecified, GenderFemale, GenderMale, GenderOther:
		return true
	default:
		return false
	}
}

// User represents a student account in the CampusHub application.
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Username string `gorm:"size:60;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Gender   Gender `gorm:"size:20" json:"gender"`
	// AvatarRef is an opaque reference into the host's blob storage.
	AvatarRef string    `gorm:"size:255" json:"avatar_ref"`
	JoinedAt  time.Time `json:"joined_at"`

	// EnrolledCourseIDs is a denormalized projection of the Enrollment
	// relation, regenerated on every enrollment mutation. The relation is
	// the source of truth; this list exists for lookup without traversal.
	EnrolledCourseIDs []string `gorm:"serializer:json" json:"enrolled_course_ids"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID and join timestamp when absent.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	return nil
}
