package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campushub/internal/cache"
	"campushub/internal/middleware"
	"campushub/internal/models"
	"campushub/internal/repository"
)

// SyncState is the reconciler's lifecycle state.
type SyncState string

const (
	// SyncIdle means no reconciliation is running and the last one, if any,
	// succeeded.
	SyncIdle SyncState = "idle"
	// SyncReconciling means a reconciliation is in flight.
	SyncReconciling SyncState = "reconciling"
	// SyncFailed means the last reconciliation failed and left the local
	// store untouched. A later attempt may clear it.
	SyncFailed SyncState = "failed"
)

// RemoteClassTime is a weekly meeting slot as the campus backend sends it.
type RemoteClassTime struct {
	DayOfWeek int    `json:"day_of_week"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Location  string `json:"location"`
}

// RemoteHomework is an assignment as the campus backend sends it.
type RemoteHomework struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at"`
}

// RemoteCourse is a course payload from the campus backend.
type RemoteCourse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Professor   string            `json:"professor"`
	Code        string            `json:"code"`
	Credits     int               `json:"credits"`
	Description string            `json:"description"`
	ClassTimes  []RemoteClassTime `json:"class_times"`
	Homeworks   []RemoteHomework  `json:"homeworks"`
}

// RemoteSnapshot is the per-user state the campus backend reports at login:
// the authoritative enrollment set plus whatever course payloads the backend
// chose to embed. Enrolled ids without an embedded payload are resolved
// through the course catalog.
type RemoteSnapshot struct {
	UserID            string         `json:"user_id"`
	Username          string         `json:"username"`
	EnrolledCourseIDs []string       `json:"enrolled_course_ids"`
	Courses           []RemoteCourse `json:"courses"`
}

// EnrollmentFetcher retrieves a user's remote snapshot.
type EnrollmentFetcher interface {
	FetchSnapshot(ctx context.Context, userID string) (*RemoteSnapshot, error)
}

// CourseCatalog resolves course payloads the snapshot did not embed.
type CourseCatalog interface {
	FetchCourse(ctx context.Context, courseID string) (*RemoteCourse, error)
}

// SyncService reconciles a user's local state against the campus backend.
// The remote enrollment set wins: after a successful reconcile the local
// enrollments for the user match the snapshot exactly, and the whole merge
// is applied in one transaction or not at all. Reconciliations are
// serialized; callers see the state through State.
type SyncService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
	fetcher    EnrollmentFetcher
	catalog    CourseCatalog

	runMu sync.Mutex

	stateMu sync.RWMutex
	state   SyncState
	lastErr error
}

// NewSyncService creates a new SyncService in the idle state.
func NewSyncService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	enrollRepo repository.EnrollmentRepository,
	fetcher EnrollmentFetcher,
	catalog CourseCatalog,
) *SyncService {
	return &SyncService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		fetcher:    fetcher,
		catalog:    catalog,
		state:      SyncIdle,
	}
}

// State returns the reconciler's current state.
func (s *SyncService) State() SyncState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// LastError returns the error of the most recent failed reconciliation, nil
// when the reconciler is idle.
func (s *SyncService) LastError() error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastErr
}

func (s *SyncService) setState(state SyncState, err error) {
	s.stateMu.Lock()
	s.state = state
	s.lastErr = err
	s.stateMu.Unlock()
}

// ReconcileFromRemote fetches the user's snapshot from the campus backend
// and applies it locally. On success the state returns to idle and the
// user's caches are invalidated; on failure the state is failed and the
// local store is exactly as it was before the call.
func (s *SyncService) ReconcileFromRemote(ctx context.Context, userID string) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setState(SyncReconciling, nil)
	start := time.Now()
	err := s.reconcile(ctx, userID)
	middleware.SyncDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		middleware.SyncAttempts.WithLabelValues("failure").Inc()
		s.setState(SyncFailed, err)
		middleware.Logger.ErrorContext(ctx, "reconciliation failed",
			"user_id", userID, "error", err)
		return err
	}

	middleware.SyncAttempts.WithLabelValues("success").Inc()
	s.setState(SyncIdle, nil)
	cache.InvalidateFeed(ctx)
	middleware.Logger.InfoContext(ctx, "reconciliation complete", "user_id", userID)
	return nil
}

func (s *SyncService) reconcile(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return models.NewSyncError(fmt.Sprintf("user %s is not known locally", userID), err)
	}

	snapshot, err := s.fetcher.FetchSnapshot(ctx, userID)
	if err != nil {
		return models.NewSyncError("fetching remote snapshot", err)
	}

	courses, err := s.resolveCourses(ctx, snapshot)
	if err != nil {
		return err
	}

	ids := dedupe(snapshot.EnrolledCourseIDs)
	if err := s.enrollRepo.ReconcileEnrollments(ctx, userID, snapshot.Username, courses, ids); err != nil {
		return models.NewSyncError("applying remote snapshot", err)
	}
	return nil
}

// resolveCourses turns the snapshot into local course payloads, fetching
// from the catalog any enrolled course the snapshot did not embed and that
// does not exist locally. A catalog miss fails the whole reconcile.
func (s *SyncService) resolveCourses(ctx context.Context, snapshot *RemoteSnapshot) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(snapshot.Courses))
	seen := make(map[string]bool, len(snapshot.Courses))
	for _, rc := range snapshot.Courses {
		if seen[rc.ID] {
			continue
		}
		seen[rc.ID] = true
		courses = append(courses, remoteCourseToModel(rc))
	}

	for _, courseID := range snapshot.EnrolledCourseIDs {
		if seen[courseID] {
			continue
		}
		exists, err := s.courseRepo.Exists(ctx, courseID)
		if err != nil {
			return nil, models.NewSyncError("checking local course catalog", err)
		}
		if exists {
			seen[courseID] = true
			continue
		}
		rc, err := s.catalog.FetchCourse(ctx, courseID)
		if err != nil {
			return nil, models.NewSyncError(
				fmt.Sprintf("course %s could not be resolved from the catalog", courseID), err)
		}
		seen[courseID] = true
		courses = append(courses, remoteCourseToModel(*rc))
	}
	return courses, nil
}

func remoteCourseToModel(rc RemoteCourse) models.Course {
	course := models.Course{
		ID:          rc.ID,
		Name:        rc.Name,
		Professor:   rc.Professor,
		Code:        rc.Code,
		Credits:     rc.Credits,
		Description: rc.Description,
	}
	for _, ct := range rc.ClassTimes {
		course.ClassTimes = append(course.ClassTimes, models.ClassTime{
			CourseID:  rc.ID,
			DayOfWeek: ct.DayOfWeek,
			StartsAt:  ct.StartsAt,
			EndsAt:    ct.EndsAt,
			Location:  ct.Location,
		})
	}
	for _, hw := range rc.Homeworks {
		course.Homeworks = append(course.Homeworks, models.Homework{
			ID:          hw.ID,
			CourseID:    rc.ID,
			Title:       hw.Title,
			Description: hw.Description,
			DueAt:       hw.DueAt,
		})
	}
	return course
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
