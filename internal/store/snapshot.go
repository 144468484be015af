package store

import (
	"context"
	"fmt"

	"github.com/skillforge/skillforge-server/internal/domain"
)

// CourseSnapshot pairs a course with its resolved tag display names.
// Scoring works over tag names rather than tag IDs, so snapshots are the
// unit the recommendation pipeline consumes.
type CourseSnapshot struct {
	Course   *domain.Course
	TagNames []string
}

// SnapshotCourses resolves tag names for a batch of courses in a single
// pass, loading the tag set once instead of per course.
func (s *Store) SnapshotCourses(ctx context.Context, courses []*domain.Course) ([]CourseSnapshot, error) {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot courses: %w", err)
	}

	namesByID := make(map[string]string, len(tags))
	for _, tag := range tags {
		namesByID[tag.ID] = tag.Name
	}

	snapshots := make([]CourseSnapshot, 0, len(courses))
	for _, course := range courses {
		var names []string
		for _, tagID := range course.TagIDs {
			if name, ok := namesByID[tagID]; ok {
				names = append(names, name)
			}
		}
		snapshots = append(snapshots, CourseSnapshot{Course: course, TagNames: names})
	}
	return snapshots, nil
}
