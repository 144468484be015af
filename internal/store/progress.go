package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/skillforge/skillforge-server/internal/domain"
)

const progressPrefix = "progress:" // progress:{userID}:{courseID}

// ErrProgressNotFound is returned when no progress record exists for the
// user/course pair.
var ErrProgressNotFound = errors.New("progress not found")

func progressKey(userID, courseID string) []byte {
	return []byte(progressPrefix + userID + ":" + courseID)
}

// GetProgress retrieves the progress record for a user on a course.
func (s *Store) GetProgress(_ context.Context, userID, courseID string) (*domain.CourseProgress, error) {
	var progress domain.CourseProgress
	err := s.get(progressKey(userID, courseID), &progress)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &progress, nil
}

// UpsertProgress creates or replaces the progress record for a user on a
// course.
func (s *Store) UpsertProgress(_ context.Context, progress *domain.CourseProgress) error {
	return s.set(progressKey(progress.UserID, progress.CourseID), progress)
}
