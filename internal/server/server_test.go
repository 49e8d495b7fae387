package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"campushub/internal/config"
	"campushub/internal/database"
	"campushub/internal/models"
	"campushub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fetcherStub struct {
	snapshot *service.RemoteSnapshot
	err      error
}

func (f *fetcherStub) FetchSnapshot(ctx context.Context, userID string) (*service.RemoteSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &service.RemoteSnapshot{UserID: userID}, nil
}

type catalogStub struct {
	courses map[string]*service.RemoteCourse
}

func (c *catalogStub) FetchCourse(ctx context.Context, courseID string) (*service.RemoteCourse, error) {
	if rc, ok := c.courses[courseID]; ok {
		return rc, nil
	}
	return nil, models.NewNotFoundError("Course", courseID)
}

type testServer struct {
	server  *Server
	app     *fiber.App
	db      *gorm.DB
	fetcher *fetcherStub
	catalog *catalogStub
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Port:                 "0",
		JWTSecret:            "test-secret-key-for-handler-tests",
		Env:                  "test",
		RemoteTimeoutSeconds: 5,
	}

	fetcher := &fetcherStub{}
	catalog := &catalogStub{courses: map[string]*service.RemoteCourse{}}

	srv, err := NewServerWithDeps(cfg, db, nil, fetcher, catalog)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	return &testServer{server: srv, app: app, db: db, fetcher: fetcher, catalog: catalog}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		// 204 responses have no body
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

// signup registers a fresh user and returns its token and ID.
func (ts *testServer) signup(t *testing.T, username string) (token, userID string) {
	t.Helper()

	status, body := ts.request(t, "POST", "/api/auth/signup", "", fiber.Map{
		"username": username,
		"email":    username + "@campus.edu",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, fiber.StatusCreated, status, "signup failed: %v", body)

	token = body["token"].(string)
	user := body["user"].(map[string]any)
	return token, user["id"].(string)
}
