package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DueSoonWindow is the horizon within which a homework counts as due soon.
// The boundary is inclusive: due exactly 72 hours from now is still due soon.
const DueSoonWindow = 72 * time.Hour

// Course represents a course offered on campus.
type Course struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:120;not null" json:"name"`
	Professor   string `gorm:"size:120" json:"professor"`
	Code        string `gorm:"size:30;index" json:"code"`
	Credits     int    `gorm:"not null;default:0" json:"credits"`
	Description string `gorm:"type:text" json:"description"`

	// AverageRating is not persisted; computed at query time as the mean of
	// CourseComment ratings, 0 when no comments exist.
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// EnrolledCount is not persisted; computed at query time.
	EnrolledCount int `gorm:"->" json:"enrolled_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClassTimes []ClassTime     `gorm:"foreignKey:CourseID" json:"class_times,omitempty"`
	Homeworks  []Homework      `gorm:"foreignKey:CourseID" json:"homeworks,omitempty"`
	Comments   []CourseComment `gorm:"foreignKey:CourseID" json:"comments,omitempty"`
}

// TableName specifies the table name for GORM.
func (Course) TableName() string {
	return "courses"
}

// BeforeCreate assigns a UUID when absent.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ClassTime is one weekly meeting slot of a course. It belongs to exactly
// one course and is deleted with it.
type ClassTime struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	CourseID string `gorm:"size:36;not null;index" json:"course_id"`
	// DayOfWeek is 1-7, Monday = 1.
	DayOfWeek int    `gorm:"not null" json:"day_of_week"`
	StartsAt  string `gorm:"size:5;not null" json:"starts_at"` // "HH:MM"
	EndsAt    string `gorm:"size:5;not null" json:"ends_at"`   // "HH:MM"
	Location  string `gorm:"size:120" json:"location"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (ClassTime) TableName() string {
	return "class_times"
}

// BeforeCreate assigns a UUID when absent.
func (t *ClassTime) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Homework is an assignment on a course. It belongs to exactly one course
// and is deleted with it.
type Homework struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string    `gorm:"size:36;not null;index" json:"course_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueAt       time.Time `gorm:"not null" json:"due_at"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Homework) TableName() string {
	return "homeworks"
}

// BeforeCreate assigns a UUID when absent.
func (h *Homework) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// IsDueSoon reports whether the homework is due within DueSoonWindow of now,
// boundary inclusive. Overdue homework is still due soon.
func (h *Homework) IsDueSoon(now time.Time) bool {
	return h.DueAt.Sub(now) <= DueSoonWindow
}

// CourseComment is a rated review on a course. It belongs to one author and
// one course and is deleted with the course. CourseID and AuthorID are the
// denormalized lookup keys alongside the preloadable Author relation.
type CourseComment struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	CourseID string `gorm:"size:36;not null;index" json:"course_id"`
	AuthorID string `gorm:"size:36;not null;index" json:"author_id"`
	Content  string `gorm:"type:text" json:"content"`
	// Rating is 1-5 inclusive, validated before insert.
	Rating int `gorm:"not null" json:"rating"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM.
func (CourseComment) TableName() string {
	return "course_comments"
}

// BeforeCreate assigns a UUID when absent.
func (cc *CourseComment) BeforeCreate(tx *gorm.DB) error {
	if cc.ID == "" {
		cc.ID = uuid.NewString()
	}
	return nil
}
