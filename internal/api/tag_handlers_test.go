package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTag creates a tag through the API and returns it.
func (ts *testServer) createTag(t *testing.T, name string) TagResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "create tag failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope.Data
}

func TestCreateTag_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tag := ts.createTag(t, "Go")

	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "Go", tag.Name)
	assert.Zero(t, tag.CourseCount)
	assert.False(t, tag.CreatedAt.IsZero())
}

func TestCreateTag_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTag(t, "Networking")

	// Same name with different casing collides.
	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "networking"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testErrorEnvelope
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error.Message, "already in use")
}

func TestCreateTag_EmptyName(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetTag_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	created := ts.createTag(t, "Databases")

	resp := ts.api.Get("/api/v1/tags/" + created.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, created.ID, envelope.Data.ID)
	assert.Equal(t, "Databases", envelope.Data.Name)
}

func TestGetTag_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/tags/tag_missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListTags_ReportsCourseCounts(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	goTag := ts.createTag(t, "Go")
	ts.createTag(t, "Design")

	eduID := ts.registerUser(t, "Edu", "edu@example.com")
	ts.promoteEducator(t, eduID)

	resp := ts.api.Post("/api/v1/educators/"+eduID+"/courses", map[string]any{
		"title":   "Go Fundamentals",
		"price":   19.99,
		"tag_ids": []string{goTag.ID},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Tags, 2)
	counts := make(map[string]int)
	for _, tag := range envelope.Data.Tags {
		counts[tag.Name] = tag.CourseCount
	}
	assert.Equal(t, 1, counts["Go"])
	assert.Equal(t, 0, counts["Design"])
}

func TestRenameTag_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	created := ts.createTag(t, "Marketting")

	resp := ts.api.Patch("/api/v1/tags/"+created.ID, map[string]any{"name": "Marketing"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, created.ID, envelope.Data.ID)
	assert.Equal(t, "Marketing", envelope.Data.Name)
}

func TestRenameTag_NameCollision(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.createTag(t, "Go")
	other := ts.createTag(t, "Golang")

	resp := ts.api.Patch("/api/v1/tags/"+other.ID, map[string]any{"name": "go"})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestDeleteTag_DetachesFromCourses(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tag := ts.createTag(t, "Legacy")

	eduID := ts.registerUser(t, "Edu", "edu@example.com")
	ts.promoteEducator(t, eduID)

	resp := ts.api.Post("/api/v1/educators/"+eduID+"/courses", map[string]any{
		"title":     "Legacy Systems",
		"price":     9.99,
		"tag_ids":   []string{tag.ID},
		"published": true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var courseEnvelope testEnvelope[CourseResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &courseEnvelope)
	require.NoError(t, err)
	courseID := courseEnvelope.Data.ID

	resp = ts.api.Delete("/api/v1/tags/" + tag.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Tag is gone and the course no longer references it.
	resp = ts.api.Get("/api/v1/tags/" + tag.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/courses/" + courseID)
	require.Equal(t, http.StatusOK, resp.Code)

	err = json.Unmarshal(resp.Body.Bytes(), &courseEnvelope)
	require.NoError(t, err)
	assert.Empty(t, courseEnvelope.Data.TagIDs)
}

func TestDeleteTag_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Delete("/api/v1/tags/tag_missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
