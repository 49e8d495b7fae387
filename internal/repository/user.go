// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"campushub/internal/cache"
	"campushub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the given email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user and everything the user owns: their posts (with
// comments and likes under them), their comments elsewhere, and their course
// ratings. Non-owning relations are nullified: enrollments and the user's
// own likes are dropped without touching the courses, posts, or comments on
// the other side. The whole cascade runs in one transaction.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}

		var postIDs []string
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		// Comments under the user's posts plus comments the user wrote elsewhere.
		var commentIDs []string
		if err := tx.Model(&models.PostComment{}).
			Where("post_id IN ? OR author_id = ?", emptySafe(postIDs), id).
			Pluck("id", &commentIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		// Likes first, then the rows they point at.
		steps := []*gorm.DB{
			tx.Where("comment_id IN ?", emptySafe(commentIDs)).Delete(&models.CommentLike{}),
			tx.Where("user_id = ?", id).Delete(&models.CommentLike{}),
			tx.Where("id IN ?", emptySafe(commentIDs)).Delete(&models.PostComment{}),
			tx.Where("post_id IN ?", emptySafe(postIDs)).Delete(&models.PostLike{}),
			tx.Where("user_id = ?", id).Delete(&models.PostLike{}),
			tx.Where("id IN ?", emptySafe(postIDs)).Delete(&models.Post{}),
			tx.Where("author_id = ?", id).Delete(&models.CourseComment{}),
			tx.Where("user_id = ?", id).Delete(&models.Enrollment{}),
			tx.Where("id = ?", id).Delete(&models.User{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return models.NewInternalError(step.Error)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("created_at").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// emptySafe keeps IN clauses valid for empty id sets.
func emptySafe(ids []string) []string {
	if len(ids) == 0 {
		return []string{""}
	}
	return ids
}
