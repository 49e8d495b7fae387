package service

import (
	"context"
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostService(env *testEnv) *PostService {
	return NewPostService(env.postRepo, env.comments, env.userRepo)
}

func TestCreatePost_Validation(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	user := seedUser(t, env.db, "author")

	_, err := svc.CreatePost(ctx, user.ID, "  ", "body", "")
	assertErrCode(t, err, models.CodeValidation)

	_, err = svc.CreatePost(ctx, user.ID, "title", "", "")
	assertErrCode(t, err, models.CodeValidation)

	_, err = svc.CreatePost(ctx, "missing", "title", "body", "")
	assertErrCode(t, err, models.CodeNotFound)

	post, err := svc.CreatePost(ctx, user.ID, "title", "body", "")
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, user.ID, post.AuthorID)
}

func TestUpdatePost_OnlyAuthor(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := seedUser(t, env.db, "author")
	stranger := seedUser(t, env.db, "stranger")
	post, err := svc.CreatePost(ctx, author.ID, "original", "body", "")
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, stranger.ID, post.ID, "hijacked", "", "")
	assertErrCode(t, err, models.CodeUnauthorized)

	updated, err := svc.UpdatePost(ctx, author.ID, post.ID, "edited", "", "")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	assert.Equal(t, "body", updated.Content)
}

func TestDeletePost_OnlyAuthor(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := seedUser(t, env.db, "author")
	stranger := seedUser(t, env.db, "stranger")
	post, err := svc.CreatePost(ctx, author.ID, "title", "body", "")
	require.NoError(t, err)

	assertErrCode(t, svc.DeletePost(ctx, stranger.ID, post.ID), models.CodeUnauthorized)

	require.NoError(t, svc.DeletePost(ctx, author.ID, post.ID))
	_, err = svc.GetPost(ctx, post.ID, "")
	assertErrCode(t, err, models.CodeNotFound)
}

func TestFeed_NewestFirstAndPaged(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := seedUser(t, env.db, "author")
	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.CreatePost(ctx, author.ID, title, "body", "")
		require.NoError(t, err)
	}

	page, err := svc.Feed(ctx, 2, 0, "")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Title)
	assert.Equal(t, "second", page[1].Title)

	rest, err := svc.Feed(ctx, 2, 2, "")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Title)
}

func TestAddComment_Validation(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := seedUser(t, env.db, "author")
	post, err := svc.CreatePost(ctx, author.ID, "title", "body", "")
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, author.ID, post.ID, "   ")
	assertErrCode(t, err, models.CodeValidation)

	_, err = svc.AddComment(ctx, author.ID, "missing", "hello")
	assertErrCode(t, err, models.CodeNotFound)

	comment, err := svc.AddComment(ctx, author.ID, post.ID, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)

	comments, err := svc.Comments(ctx, post.ID, "")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Content)
}

func TestDeleteComment_OnlyAuthor(t *testing.T) {
	env := setupEnv(t)
	svc := newPostService(env)
	ctx := context.Background()

	author := seedUser(t, env.db, "author")
	commenter := seedUser(t, env.db, "commenter")
	post, err := svc.CreatePost(ctx, author.ID, "title", "body", "")
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, commenter.ID, post.ID, "hello")
	require.NoError(t, err)

	assertErrCode(t, svc.DeleteComment(ctx, author.ID, comment.ID), models.CodeUnauthorized)
	require.NoError(t, svc.DeleteComment(ctx, commenter.ID, comment.ID))
}
