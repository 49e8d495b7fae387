// Package remote implements HTTP clients for the campus backend: the
// per-user enrollment snapshot endpoint and the course catalog.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campushub/internal/config"
	"campushub/internal/models"
	"campushub/internal/service"
)

// CampusClient talks to the campus backend over HTTP. It implements
// service.EnrollmentFetcher and service.CourseCatalog.
type CampusClient struct {
	httpClient      *http.Client
	snapshotBaseURL string
	catalogBaseURL  string
}

// NewCampusClient creates a client from the remote endpoints in cfg.
func NewCampusClient(cfg *config.Config) *CampusClient {
	return &CampusClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RemoteTimeoutSeconds) * time.Second,
		},
		snapshotBaseURL: strings.TrimRight(cfg.SnapshotBaseURL, "/"),
		catalogBaseURL:  strings.TrimRight(cfg.CatalogBaseURL, "/"),
	}
}

// FetchSnapshot retrieves the user's current enrollment snapshot.
func (c *CampusClient) FetchSnapshot(ctx context.Context, userID string) (*service.RemoteSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/users/%s/snapshot", c.snapshotBaseURL, url.PathEscape(userID))

	var snapshot service.RemoteSnapshot
	if err := c.getJSON(ctx, endpoint, "User", userID, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchCourse retrieves a single course from the catalog. A 404 maps to a
// not-found error so the reconciler can distinguish a missing course from a
// backend outage.
func (c *CampusClient) FetchCourse(ctx context.Context, courseID string) (*service.RemoteCourse, error) {
	endpoint := fmt.Sprintf("%s/api/courses/%s", c.catalogBaseURL, url.PathEscape(courseID))

	var course service.RemoteCourse
	if err := c.getJSON(ctx, endpoint, "Course", courseID, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CampusClient) getJSON(ctx context.Context, endpoint, resource, id string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewInternalError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.NewNotFoundError(resource, id)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.NewInternalError(
			fmt.Errorf("campus backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return models.NewInternalError(fmt.Errorf("decoding campus backend response: %w", err))
	}
	return nil
}
