package repository

import (
	"context"
	"errors"

	"campushub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for post comment operations,
// including the comment-level like relation.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.PostComment) error
	GetByID(ctx context.Context, id string, currentUserID string) (*models.PostComment, error)
	ListByPost(ctx context.Context, postID string, currentUserID string) ([]*models.PostComment, error)
	Delete(ctx context.Context, id string) error

	IsLiked(ctx context.Context, userID, commentID string) (bool, error)
	Like(ctx context.Context, userID, commentID string) error
	Unlike(ctx context.Context, userID, commentID string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.PostComment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", comment.PostID)
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string, currentUserID string) (*models.PostComment, error) {
	var comment models.PostComment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}

	if err := r.populateCommentDetails(ctx, &comment, currentUserID); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, currentUserID string) ([]*models.PostComment, error) {
	var comments []*models.PostComment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, comment := range comments {
		if err := r.populateCommentDetails(ctx, comment, currentUserID); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

func (r *commentRepository) populateCommentDetails(ctx context.Context, comment *models.PostComment, currentUserID string) error {
	var likes int64
	if err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ?", comment.ID).Count(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}
	comment.LikesCount = int(likes)

	if currentUserID != "" {
		liked, err := r.IsLiked(ctx, currentUserID, comment.ID)
		if err != nil {
			return err
		}
		comment.Liked = liked
	}
	return nil
}

// Delete removes the comment and its likes. Liking users survive.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.PostComment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", id)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.PostComment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *commentRepository) IsLiked(ctx context.Context, userID, commentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like adds the user to the comment's liking set; idempotent.
func (r *commentRepository) Like(ctx context.Context, userID, commentID string) error {
	if err := r.checkLikeTargets(ctx, userID, commentID); err != nil {
		return err
	}

	like := models.CommentLike{UserID: userID, CommentID: commentID}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		FirstOrCreate(&like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Unlike removes the user from the comment's liking set; a no-op if absent.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID string) error {
	if err := r.checkLikeTargets(ctx, userID, commentID); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) checkLikeTargets(ctx context.Context, userID, commentID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostComment{}).
		Where("id = ?", commentID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Comment", commentID)
	}

	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}
