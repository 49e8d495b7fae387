package repository

import (
	"context"
	"testing"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.GetByID(ctx, "missing")
	assertErrCode(t, err, models.CodeNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "bob")

	got, err := repo.GetByEmail(ctx, "bob@campus.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bob", got.Username)

	// Absent email is (nil, nil), not an error.
	got, err = repo.GetByEmail(ctx, "nobody@campus.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_DeleteCascadesOwnership(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	enrollRepo := NewEnrollmentRepository(db)
	ctx := context.Background()

	victim := createUser(t, db, "leaver")
	bystander := createUser(t, db, "bystander")
	course := createCourse(t, db, "ethics")

	// The leaver owns a post, a comment on someone else's post, a course
	// rating, an enrollment, and likes on other people's content.
	ownPost := createPost(t, db, victim, "bye")
	otherPost := createPost(t, db, bystander, "staying")

	ownComment := &models.PostComment{PostID: otherPost.ID, AuthorID: victim.ID, Content: "so long"}
	require.NoError(t, commentRepo.Create(ctx, ownComment))
	strangerComment := &models.PostComment{PostID: ownPost.ID, AuthorID: bystander.ID, Content: "farewell"}
	require.NoError(t, commentRepo.Create(ctx, strangerComment))

	require.NoError(t, db.Create(&models.CourseComment{
		CourseID: course.ID, AuthorID: victim.ID, Content: "great", Rating: 5,
	}).Error)
	require.NoError(t, enrollRepo.Enroll(ctx, victim.ID, course.ID))
	require.NoError(t, postRepo.Like(ctx, victim.ID, otherPost.ID))

	require.NoError(t, userRepo.Delete(ctx, victim.ID))

	// Owned content is gone, including comments under the user's own post.
	var posts, postComments, courseComments, enrollments, likes int64
	require.NoError(t, db.Model(&models.Post{}).Where("author_id = ?", victim.ID).Count(&posts).Error)
	require.NoError(t, db.Model(&models.PostComment{}).
		Where("author_id = ? OR post_id = ?", victim.ID, ownPost.ID).Count(&postComments).Error)
	require.NoError(t, db.Model(&models.CourseComment{}).Where("author_id = ?", victim.ID).Count(&courseComments).Error)
	require.NoError(t, db.Model(&models.Enrollment{}).Where("user_id = ?", victim.ID).Count(&enrollments).Error)
	require.NoError(t, db.Model(&models.PostLike{}).Where("user_id = ?", victim.ID).Count(&likes).Error)
	assert.Zero(t, posts)
	assert.Zero(t, postComments)
	assert.Zero(t, courseComments)
	assert.Zero(t, enrollments)
	assert.Zero(t, likes)

	// Non-owned entities on the other side of nullify relations survive.
	_, err := NewCourseRepository(db).GetByID(ctx, course.ID)
	require.NoError(t, err)
	_, err = postRepo.GetByID(ctx, otherPost.ID, "")
	require.NoError(t, err)
	_, err = userRepo.GetByID(ctx, bystander.ID)
	require.NoError(t, err)
}

func TestUserRepository_DeleteUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.Delete(context.Background(), "missing")
	assertErrCode(t, err, models.CodeNotFound)
}
