// Package service contains the application's business logic.
package service

import (
	"context"

	"campushub/internal/middleware"
	"campushub/internal/models"
	"campushub/internal/repository"
)

// EngagementService handles like/unlike bookkeeping for posts and comments
// and rating comments on courses. Every operation is idempotent with respect
// to repeated identical calls.
type EngagementService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	courseRepo  repository.CourseRepository
}

// NewEngagementService creates a new EngagementService.
func NewEngagementService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	courseRepo repository.CourseRepository,
) *EngagementService {
	return &EngagementService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		courseRepo:  courseRepo,
	}
}

// LikePost adds the user to the post's liking set; a no-op if already liked.
func (s *EngagementService) LikePost(ctx context.Context, userID, postID string) error {
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return err
	}
	middleware.EngagementOps.WithLabelValues("post", "like").Inc()
	return nil
}

// UnlikePost removes the user from the post's liking set; a no-op if absent.
func (s *EngagementService) UnlikePost(ctx context.Context, userID, postID string) error {
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return err
	}
	middleware.EngagementOps.WithLabelValues("post", "unlike").Inc()
	return nil
}

// IsLikedBy reports whether the user currently likes the post.
func (s *EngagementService) IsLikedBy(ctx context.Context, userID, postID string) (bool, error) {
	return s.postRepo.IsLiked(ctx, userID, postID)
}

// LikeComment adds the user to the comment's liking set; idempotent.
func (s *EngagementService) LikeComment(ctx context.Context, userID, commentID string) error {
	if err := s.commentRepo.Like(ctx, userID, commentID); err != nil {
		return err
	}
	middleware.EngagementOps.WithLabelValues("comment", "like").Inc()
	return nil
}

// UnlikeComment removes the user from the comment's liking set; a no-op if absent.
func (s *EngagementService) UnlikeComment(ctx context.Context, userID, commentID string) error {
	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return err
	}
	middleware.EngagementOps.WithLabelValues("comment", "unlike").Inc()
	return nil
}

// IsCommentLikedBy reports whether the user currently likes the comment.
func (s *EngagementService) IsCommentLikedBy(ctx context.Context, userID, commentID string) (bool, error) {
	return s.commentRepo.IsLiked(ctx, userID, commentID)
}

// AddCourseRating appends a rated comment to a course. The rating must be
// 1-5 inclusive; anything else is rejected before the store is touched, so
// the course's average is unaffected by invalid input.
func (s *EngagementService) AddCourseRating(ctx context.Context, courseID, authorID, content string, rating int) (*models.CourseComment, error) {
	if rating < 1 || rating > 5 {
		return nil, models.NewRatingOutOfRangeError(rating)
	}

	comment := &models.CourseComment{
		CourseID: courseID,
		AuthorID: authorID,
		Content:  content,
		Rating:   rating,
	}
	if err := s.courseRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	middleware.EngagementOps.WithLabelValues("course", "rate").Inc()
	return comment, nil
}

// CourseAverageRating returns the mean rating over all comments on the
// course, recomputed on every call; 0 when the course has no comments.
func (s *EngagementService) CourseAverageRating(ctx context.Context, courseID string) (float64, error) {
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, models.NewNotFoundError("Course", courseID)
	}
	return s.courseRepo.AverageRating(ctx, courseID)
}
