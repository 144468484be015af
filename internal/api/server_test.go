package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/domain"
	"github.com/skillforge/skillforge-server/internal/recommend"
	"github.com/skillforge/skillforge-server/internal/search"
	"github.com/skillforge/skillforge-server/internal/service"
	"github.com/skillforge/skillforge-server/internal/store"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// testErrorEnvelope decodes error responses.
type testErrorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api     humatest.TestAPI
	cleanup func()
}

// setupTestServer creates a test server backed by a temp database and
// a temp search index.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupThrottledTestServer(t, 100, 50)
}

// setupThrottledTestServer creates a test server with a custom
// recommendation rate limit.
func setupThrottledTestServer(t *testing.T, recommendRPS float64, recommendBurst int) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "skillforge-api-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(dbPath, logger)
	require.NoError(t, err)

	idx, err := search.NewCourseIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	st.SetSearchIndexer(search.NewIndexer(idx))

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:           "Test Server",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			RecommendRPS:   recommendRPS,
			RecommendBurst: recommendBurst,
		},
	}

	params := recommend.DefaultParams()

	services := &Services{
		Course:         service.NewCourseService(st, logger),
		Tag:            service.NewTagService(st, logger),
		User:           service.NewUserService(st, logger),
		Educator:       service.NewEducatorService(st, logger),
		Recommendation: service.NewRecommendationService(st, params, logger),
		Search:         service.NewSearchService(st, idx, logger),
	}

	s := New(cfg, st, services, logger)

	cleanup := func() {
		s.recLimiter.Stop()
		_ = idx.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		cleanup: cleanup,
	}
}

// registerUser registers a student through the API and returns its ID.
func (ts *testServer) registerUser(t *testing.T, name, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/users", map[string]any{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[UserResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope.Data.ID
}

// promoteEducator upgrades a user to educator through the API.
func (ts *testServer) promoteEducator(t *testing.T, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/users/"+userID+"/educator")
	require.Equal(t, http.StatusOK, resp.Code, "promote failed: %s", resp.Body.String())
}

// seedCourse writes a course directly to the store, bypassing the API.
func (ts *testServer) seedCourse(t *testing.T, course *domain.Course) {
	t.Helper()

	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
		course.UpdatedAt = now
	}
	err := ts.store.CreateCourse(context.Background(), course)
	require.NoError(t, err)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	assert.Equal(t, "healthy", envelope.Data.Components["search"].Status)
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestEnvelope_SuccessShape(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/courses")
	require.Equal(t, http.StatusOK, resp.Code)

	var raw map[string]any
	err := json.Unmarshal(resp.Body.Bytes(), &raw)
	require.NoError(t, err)

	assert.Equal(t, float64(envelopeVersion), raw["v"])
	assert.Equal(t, true, raw["success"])
	assert.Contains(t, raw, "data")
	assert.NotContains(t, raw, "error")
}

func TestEnvelope_ErrorShape(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/courses/course_missing")
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testErrorEnvelope
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, envelopeVersion, envelope.V)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Message)
}
