package service

import (
	"context"
	"strings"

	"campushub/internal/cache"
	"campushub/internal/models"
	"campushub/internal/repository"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// PostService handles the community feed: posts and their comments.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// CreatePost publishes a new post by the given author.
func (s *PostService) CreatePost(ctx context.Context, authorID, title, content, imageRef string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, models.NewValidationError("post title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("post content is required")
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
		ImageRef: imageRef,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a single post with its engagement counts. currentUserID
// may be empty for anonymous reads; when set, the Liked flag reflects that
// user.
func (s *PostService) GetPost(ctx context.Context, id, currentUserID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// Feed returns one page of the community feed, newest first. Anonymous
// pages are served cache-aside under a version-tokened key; authenticated
// reads skip the cache because the Liked flag is per user.
func (s *PostService) Feed(ctx context.Context, limit, offset int, currentUserID string) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)

	if currentUserID != "" {
		return s.postRepo.List(ctx, limit, offset, currentUserID)
	}

	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeedKey(ctx, limit, offset), &posts, cache.FeedTTL, func() error {
		var err error
		posts, err = s.postRepo.List(ctx, limit, offset, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UserPosts returns one page of a single author's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, authorID string, limit, offset int, currentUserID string) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset, currentUserID)
}

// UpdatePost edits a post's title, content or image. Only the author may
// edit.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID, title, content, imageRef string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewUnauthorizedError("only the author can edit this post")
	}

	if strings.TrimSpace(title) != "" {
		post.Title = title
	}
	if strings.TrimSpace(content) != "" {
		post.Content = content
	}
	if imageRef != "" {
		post.ImageRef = imageRef
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and everything hanging off it. Only the author
// may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID, "")
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewUnauthorizedError("only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// AddComment attaches a comment to a post.
func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*models.PostComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment content is required")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	comment := &models.PostComment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments lists a post's comments, oldest first.
func (s *PostService) Comments(ctx context.Context, postID, currentUserID string) ([]*models.PostComment, error) {
	return s.commentRepo.ListByPost(ctx, postID, currentUserID)
}

// DeleteComment removes a comment. Only the author may delete.
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID, "")
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.NewUnauthorizedError("only the author can delete this comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
