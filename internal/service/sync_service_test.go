package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campushub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	snapshot *RemoteSnapshot
	err      error
	calls    int
}

func (f *stubFetcher) FetchSnapshot(ctx context.Context, userID string) (*RemoteSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type stubCatalog struct {
	courses map[string]*RemoteCourse
	calls   []string
}

func (c *stubCatalog) FetchCourse(ctx context.Context, courseID string) (*RemoteCourse, error) {
	c.calls = append(c.calls, courseID)
	if rc, ok := c.courses[courseID]; ok {
		return rc, nil
	}
	return nil, models.NewNotFoundError("Course", courseID)
}

func newSyncService(env *testEnv, fetcher EnrollmentFetcher, catalog CourseCatalog) *SyncService {
	return NewSyncService(env.userRepo, env.courseRepo, env.enrollRepo, fetcher, catalog)
}

func TestReconcileFromRemote_AppliesSnapshot(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "student")
	local := seedCourse(t, env.db, "Existing")
	stale := seedCourse(t, env.db, "Stale")
	require.NoError(t, env.enrollRepo.Enroll(ctx, user.ID, stale.ID))

	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{
		UserID:            user.ID,
		EnrolledCourseIDs: []string{local.ID, "remote-1"},
		Courses: []RemoteCourse{{
			ID:        "remote-1",
			Name:      "Distributed Systems",
			Professor: "Prof. Lamport",
			Code:      "CS-501",
			Credits:   4,
			ClassTimes: []RemoteClassTime{
				{DayOfWeek: 2, StartsAt: "10:00", EndsAt: "11:30", Location: "B-204"},
			},
			Homeworks: []RemoteHomework{
				{ID: "hw-1", Title: "Clocks", DueAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
			},
		}},
	}}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))
	assert.Equal(t, SyncIdle, svc.State())
	assert.NoError(t, svc.LastError())

	// The remote set wins: the stale enrollment is gone, the remote course
	// now exists locally with its class times and homeworks.
	enrolled, err := env.enrollRepo.IsEnrolled(ctx, user.ID, stale.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	created, err := env.courseRepo.GetByID(ctx, "remote-1")
	require.NoError(t, err)
	assert.Equal(t, "Distributed Systems", created.Name)
	assert.Len(t, created.ClassTimes, 1)
	assert.Len(t, created.Homeworks, 1)

	// The stale course itself survives; only the enrollment was dropped.
	_, err = env.courseRepo.GetByID(ctx, stale.ID)
	require.NoError(t, err)

	loaded, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	expected := []string{local.ID, "remote-1"}
	if local.ID > "remote-1" {
		expected = []string{"remote-1", local.ID}
	}
	assert.Equal(t, expected, loaded.EnrolledCourseIDs)
}

func TestReconcileFromRemote_MergesRemoteUsername(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "old-handle")
	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{
		UserID:   user.ID,
		Username: "new-handle",
	}}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))

	loaded, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-handle", loaded.Username)

	// A snapshot without a username leaves the local one alone.
	fetcher.snapshot = &RemoteSnapshot{UserID: user.ID}
	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))
	loaded, err = env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-handle", loaded.Username)
}

func TestReconcileFromRemote_ResolvesMissingCourseFromCatalog(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "student")
	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{
		UserID:            user.ID,
		EnrolledCourseIDs: []string{"catalog-only"},
	}}
	catalog := &stubCatalog{courses: map[string]*RemoteCourse{
		"catalog-only": {ID: "catalog-only", Name: "Operating Systems"},
	}}
	svc := newSyncService(env, fetcher, catalog)

	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))
	assert.Equal(t, []string{"catalog-only"}, catalog.calls)

	created, err := env.courseRepo.GetByID(ctx, "catalog-only")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", created.Name)
}

func TestReconcileFromRemote_CatalogMissFailsWholeMerge(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "student")
	kept := seedCourse(t, env.db, "Kept")
	require.NoError(t, env.enrollRepo.Enroll(ctx, user.ID, kept.ID))

	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{
		UserID:            user.ID,
		EnrolledCourseIDs: []string{"ghost"},
	}}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	err := svc.ReconcileFromRemote(ctx, user.ID)
	assertErrCode(t, err, models.CodeSync)
	assert.Equal(t, SyncFailed, svc.State())
	assert.Error(t, svc.LastError())

	// Nothing changed locally.
	enrolled, lerr := env.enrollRepo.IsEnrolled(ctx, user.ID, kept.ID)
	require.NoError(t, lerr)
	assert.True(t, enrolled)
}

func TestReconcileFromRemote_UnknownLocalUser(t *testing.T) {
	env := setupEnv(t)
	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{}}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	err := svc.ReconcileFromRemote(context.Background(), "missing")
	assertErrCode(t, err, models.CodeSync)
	assert.Equal(t, SyncFailed, svc.State())
	assert.Zero(t, fetcher.calls, "snapshot must not be fetched for an unknown user")
}

func TestReconcileFromRemote_FetchFailure(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "student")
	fetcher := &stubFetcher{err: errors.New("backend unreachable")}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	err := svc.ReconcileFromRemote(ctx, user.ID)
	assertErrCode(t, err, models.CodeSync)
	assert.Equal(t, SyncFailed, svc.State())

	// A later successful attempt clears the failed state.
	fetcher.err = nil
	fetcher.snapshot = &RemoteSnapshot{UserID: user.ID}
	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))
	assert.Equal(t, SyncIdle, svc.State())
	assert.NoError(t, svc.LastError())
}

func TestReconcileFromRemote_EmptySnapshotClearsEnrollments(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := seedUser(t, env.db, "student")
	course := seedCourse(t, env.db, "Dropped")
	require.NoError(t, env.enrollRepo.Enroll(ctx, user.ID, course.ID))

	fetcher := &stubFetcher{snapshot: &RemoteSnapshot{UserID: user.ID}}
	svc := newSyncService(env, fetcher, &stubCatalog{})

	require.NoError(t, svc.ReconcileFromRemote(ctx, user.ID))

	loaded, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.EnrolledCourseIDs)

	enrolled, err := env.enrollRepo.IsEnrolled(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}
