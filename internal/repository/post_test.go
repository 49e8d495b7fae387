package repository

import (
	"context"
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "liker")
	author := createUser(t, db, "author")
	post := createPost(t, db, author, "hello")

	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	require.NoError(t, repo.Like(ctx, user.ID, post.ID))

	got, err := repo.GetByID(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.True(t, got.Liked)
}

func TestPostRepository_UnlikeRestoresCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "liker")
	author := createUser(t, db, "author")
	post := createPost(t, db, author, "hello")

	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	require.NoError(t, repo.Unlike(ctx, user.ID, post.ID))
	// Unliking when not liked is a no-op.
	require.NoError(t, repo.Unlike(ctx, user.ID, post.ID))

	got, err := repo.GetByID(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.False(t, got.Liked)
}

func TestPostRepository_LikeUnknownPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "liker")

	err := repo.Like(ctx, user.ID, "missing-post")
	assertErrCode(t, err, models.CodeNotFound)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author, "doomed")

	comment := &models.PostComment{PostID: post.ID, AuthorID: commenter.ID, Content: "nice"}
	require.NoError(t, commentRepo.Create(ctx, comment))
	require.NoError(t, commentRepo.Like(ctx, author.ID, comment.ID))
	require.NoError(t, repo.Like(ctx, commenter.ID, post.ID))

	require.NoError(t, repo.Delete(ctx, post.ID))

	// Comments and likes under the post are gone.
	var comments, commentLikes, postLikes int64
	require.NoError(t, db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&commentLikes).Error)
	require.NoError(t, db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&postLikes).Error)
	assert.Zero(t, comments)
	assert.Zero(t, commentLikes)
	assert.Zero(t, postLikes)

	// The comment author survives the cascade.
	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", commenter.ID).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	_, err := repo.GetByID(ctx, post.ID, "")
	assertErrCode(t, err, models.CodeNotFound)
}

func TestPostRepository_DeleteUnknownPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	err := repo.Delete(context.Background(), "missing")
	assertErrCode(t, err, models.CodeNotFound)
}

func TestCommentRepository_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	liker := createUser(t, db, "liker")
	post := createPost(t, db, author, "post")

	comment := &models.PostComment{PostID: post.ID, AuthorID: author.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, comment))

	require.NoError(t, repo.Like(ctx, liker.ID, comment.ID))
	require.NoError(t, repo.Like(ctx, liker.ID, comment.ID))

	got, err := repo.GetByID(ctx, comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.True(t, got.Liked)

	require.NoError(t, repo.Unlike(ctx, liker.ID, comment.ID))
	got, err = repo.GetByID(ctx, comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount)
	assert.False(t, got.Liked)
}

func TestCommentRepository_CreateOnUnknownPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	author := createUser(t, db, "author")
	err := repo.Create(context.Background(), &models.PostComment{
		PostID:   "missing",
		AuthorID: author.ID,
		Content:  "into the void",
	})
	assertErrCode(t, err, models.CodeNotFound)
}
