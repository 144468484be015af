package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge-server/internal/domain"
	domainerrors "github.com/skillforge/skillforge-server/internal/errors"
	"github.com/skillforge/skillforge-server/internal/store"
)

func setupUserService(t *testing.T) (*UserService, *store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "user-service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	testStore, err := store.New(dbPath, nil)
	require.NoError(t, err)

	svc := NewUserService(testStore, slog.New(slog.DiscardHandler))

	cleanup := func() {
		testStore.Close()
		os.RemoveAll(tmpDir)
	}

	return svc, testStore, cleanup
}

func TestRegisterUser(t *testing.T) {
	svc, _, cleanup := setupUserService(t)
	defer cleanup()

	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.NotEmpty(t, user.ID)

	// Duplicate email is rejected
	_, err = svc.RegisterUser(ctx, "Ada Again", "ada@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestEnrollInCourse(t *testing.T) {
	svc, testStore, cleanup := setupUserService(t)
	defer cleanup()

	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	seedCourse(t, testStore, "course-pub", nil, nil, 0, true)
	seedCourse(t, testStore, "course-draft", nil, nil, 0, false)

	require.NoError(t, svc.EnrollInCourse(ctx, user.ID, "course-pub"))

	courses, err := svc.ListEnrollments(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "course-pub", courses[0].ID)

	// Drafts cannot be enrolled in
	err = svc.EnrollInCourse(ctx, user.ID, "course-draft")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	err = svc.EnrollInCourse(ctx, user.ID, "course-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRateCourse(t *testing.T) {
	svc, testStore, cleanup := setupUserService(t)
	defer cleanup()

	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	seedCourse(t, testStore, "course-a", nil, nil, 0, true)

	// Rating without enrollment is forbidden
	_, err = svc.RateCourse(ctx, user.ID, "course-a", 5, "")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, svc.EnrollInCourse(ctx, user.ID, "course-a"))

	course, err := svc.RateCourse(ctx, user.ID, "course-a", 4, "solid")
	require.NoError(t, err)
	require.Len(t, course.Ratings, 1)
	assert.Equal(t, 4, course.Ratings[0].Score)

	// Re-rating replaces, not appends
	course, err = svc.RateCourse(ctx, user.ID, "course-a", 2, "changed my mind")
	require.NoError(t, err)
	require.Len(t, course.Ratings, 1)
	assert.Equal(t, 2, course.Ratings[0].Score)

	// Score bounds
	_, err = svc.RateCourse(ctx, user.ID, "course-a", 6, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	_, err = svc.RateCourse(ctx, user.ID, "course-a", 0, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLectureProgress(t *testing.T) {
	svc, testStore, cleanup := setupUserService(t)
	defer cleanup()

	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	seedCourse(t, testStore, "course-a", nil, nil, 0, true)

	// Progress requires enrollment
	_, err = svc.MarkLectureCompleted(ctx, user.ID, "course-a", "lecture-1")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	require.NoError(t, svc.EnrollInCourse(ctx, user.ID, "course-a"))

	progress, err := svc.MarkLectureCompleted(ctx, user.ID, "course-a", "lecture-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lecture-1"}, progress.CompletedLectureIDs)

	// Completing the same lecture again does not duplicate it
	progress, err = svc.MarkLectureCompleted(ctx, user.ID, "course-a", "lecture-1")
	require.NoError(t, err)
	assert.Len(t, progress.CompletedLectureIDs, 1)

	// Reading progress for an untouched course yields an empty record
	fresh, err := svc.GetProgress(ctx, user.ID, "course-other")
	require.NoError(t, err)
	assert.Empty(t, fresh.CompletedLectureIDs)
}
