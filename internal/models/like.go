package models

import "time"

// PostLike records that a user likes a post. The (UserID, PostID) pair is
// unique, so the relation is a set. Rows are hard-deleted on unlike so the
// unique index stays valid across re-likes.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_like_user_post" json:"user_id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PostLike) TableName() string {
	return "post_likes"
}

// CommentLike records that a user likes a post comment. Same set semantics
// as PostLike.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_comment_like_user_comment" json:"user_id"`
	CommentID string    `gorm:"size:36;not null;uniqueIndex:idx_comment_like_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (CommentLike) TableName() string {
	return "comment_likes"
}

// Enrollment links a user to a course they are enrolled in. The
// (UserID, CourseID) pair is unique; rows are hard-deleted on unenroll.
// CreatedAt carries the enrollment order used by due-soon aggregation.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID  string    `gorm:"size:36;not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Enrollment) TableName() string {
	return "enrollments"
}
