package server

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createCourse(t *testing.T, token, name string) string {
	t.Helper()
	status, course := ts.request(t, "POST", "/api/courses/", token, fiber.Map{
		"name":      name,
		"professor": "Prof. " + name,
		"credits":   3,
	})
	require.Equal(t, fiber.StatusCreated, status)
	return course["id"].(string)
}

func TestCourseRatings(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "student")
	courseID := ts.createCourse(t, token, "Algorithms")

	// Out-of-range ratings are rejected
	for _, rating := range []int{0, 6} {
		status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/comments", token, fiber.Map{
			"content": "bad",
			"rating":  rating,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
	}

	status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/comments", token, fiber.Map{
		"content": "solid course",
		"rating":  4,
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := ts.request(t, "GET", "/api/courses/"+courseID+"/comments", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(4), body["average_rating"])
	assert.Len(t, body["comments"].([]any), 1)
}

func TestEnrollmentEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "student")
	courseID := ts.createCourse(t, token, "Databases")

	// Double enroll keeps a single membership
	for i := 0; i < 2; i++ {
		status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/enroll", token, nil)
		require.Equal(t, fiber.StatusOK, status)
	}

	status, body := ts.request(t, "GET", "/api/users/me/courses", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["courses"].([]any), 1)

	// Enrolling in an unknown course conflicts
	status, _ = ts.request(t, "POST", "/api/courses/no-such-course/enroll", token, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = ts.request(t, "DELETE", "/api/courses/"+courseID+"/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = ts.request(t, "GET", "/api/users/me/courses", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["courses"])
}

func TestHomeworkEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "student")
	courseID := ts.createCourse(t, token, "Networks")

	status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	// One due within the window, one far out
	status, hw := ts.request(t, "POST", "/api/courses/"+courseID+"/homeworks", token, fiber.Map{
		"title":  "lab 1",
		"due_at": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, status)
	dueSoonID := hw["id"].(string)

	status, _ = ts.request(t, "POST", "/api/courses/"+courseID+"/homeworks", token, fiber.Map{
		"title":  "final project",
		"due_at": time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := ts.request(t, "GET", "/api/users/me/homeworks/due-soon", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	due := body["homeworks"].([]any)
	require.Len(t, due, 1)

	// Completing the near one empties the pending list down to the far one
	status, _ = ts.request(t, "PUT", "/api/courses/"+courseID+"/homeworks/"+dueSoonID+"/completed", token, fiber.Map{
		"completed": true,
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body = ts.request(t, "GET", "/api/users/me/homeworks/pending", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	pending := body["homeworks"].([]any)
	require.Len(t, pending, 1)
}

func TestClassTimeValidation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "student")
	courseID := ts.createCourse(t, token, "Compilers")

	status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/class-times", token, fiber.Map{
		"day_of_week": 8,
		"starts_at":   "10:00",
		"ends_at":     "11:30",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, ct := ts.request(t, "POST", "/api/courses/"+courseID+"/class-times", token, fiber.Map{
		"day_of_week": 1,
		"starts_at":   "10:00",
		"ends_at":     "11:30",
		"location":    "A-101",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "A-101", ct["location"])
}

func TestDeleteCourse_Cascades(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signup(t, "student")
	courseID := ts.createCourse(t, token, "Doomed")

	status, _ := ts.request(t, "POST", "/api/courses/"+courseID+"/enroll", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = ts.request(t, "DELETE", "/api/courses/"+courseID, token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, _ = ts.request(t, "GET", "/api/courses/"+courseID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := ts.request(t, "GET", "/api/users/me/courses", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["courses"])
}
