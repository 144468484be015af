package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-server/internal/domain"
)

// setupTestStore creates a temporary store for testing
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "skillforge-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func testCourse(id, educatorID string, published bool) *domain.Course {
	now := time.Now()
	return &domain.Course{
		ID:          id,
		Title:       "Course " + id,
		Description: "A test course",
		EducatorID:  educatorID,
		Price:       49.99,
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func testUser(id, email string, role domain.Role) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:        id,
		Name:      "User " + id,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testTag(id, name string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
