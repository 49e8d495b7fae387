package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a social update in the campus feed.
type Post struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	AuthorID string `gorm:"size:36;not null;index" json:"author_id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	// ImageRef is an opaque reference into the host's blob storage.
	ImageRef string `gorm:"size:255" json:"image_ref,omitempty"`

	// LikesCount is not persisted; computed at query time as the size of the
	// post_likes relation, so it can never drift from it.
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author   User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments []PostComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a UUID when absent.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostComment is a comment on a post. It belongs to one author and one post
// and is deleted with the post.
type PostComment struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	PostID   string `gorm:"size:36;not null;index" json:"post_id"`
	AuthorID string `gorm:"size:36;not null;index" json:"author_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the requesting user liked this comment (computed).
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM.
func (PostComment) TableName() string {
	return "post_comments"
}

// BeforeCreate assigns a UUID when absent.
func (pc *PostComment) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == "" {
		pc.ID = uuid.NewString()
	}
	return nil
}
