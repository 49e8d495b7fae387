package repository

import (
	"context"
	"errors"

	"campushub/internal/cache"
	"campushub/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations, including
// the post-level like relation.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string, currentUserID string) (*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID string) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int, currentUserID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error

	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string, currentUserID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}

	if err := r.populatePostDetails(ctx, &post, currentUserID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID string) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx), limit, offset, currentUserID)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit, offset int, currentUserID string) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	return r.list(ctx, query, limit, offset, currentUserID)
}

func (r *postRepository) list(ctx context.Context, query *gorm.DB, limit, offset int, currentUserID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := query.Preload("Author").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, post := range posts {
		if err := r.populatePostDetails(ctx, post, currentUserID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// populatePostDetails fills the computed fields from the live relations.
// LikesCount always equals the size of the post_likes set because it is
// never stored anywhere else.
func (r *postRepository) populatePostDetails(ctx context.Context, post *models.Post, currentUserID string) error {
	var likes int64
	if err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("post_id = ?", post.ID).Count(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}
	post.LikesCount = int(likes)

	var comments int64
	if err := r.db.WithContext(ctx).Model(&models.PostComment{}).
		Where("post_id = ?", post.ID).Count(&comments).Error; err != nil {
		return models.NewInternalError(err)
	}
	post.CommentsCount = int(comments)

	if currentUserID != "" {
		liked, err := r.IsLiked(ctx, currentUserID, post.ID)
		if err != nil {
			return err
		}
		post.Liked = liked
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

// Delete removes the post and cascades to its comments and the likes under
// both. Comment authors and liking users are left untouched.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}

		var commentIDs []string
		if err := tx.Model(&models.PostComment{}).Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		steps := []*gorm.DB{
			tx.Where("comment_id IN ?", emptySafe(commentIDs)).Delete(&models.CommentLike{}),
			tx.Where("post_id = ?", id).Delete(&models.PostComment{}),
			tx.Where("post_id = ?", id).Delete(&models.PostLike{}),
			tx.Where("id = ?", id).Delete(&models.Post{}),
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

	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like adds the user to the post's liking set. Liking an already-liked post
// is a no-op, not an error.
func (r *postRepository) Like(ctx context.Context, userID, postID string) error {
	if err := r.checkLikeTargets(ctx, userID, postID); err != nil {
		return err
	}

	like := models.PostLike{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		FirstOrCreate(&like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// Unlike removes the user from the post's liking set; a no-op if absent.
func (r *postRepository) Unlike(ctx context.Context, userID, postID string) error {
	if err := r.checkLikeTargets(ctx, userID, postID); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) checkLikeTargets(ctx context.Context, userID, postID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
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
