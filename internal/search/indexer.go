package search

import (
	"context"

	"github.com/skillforge/skillforge-server/internal/domain"
)

// Indexer adapts CourseIndex to the store's search indexer contract so
// course writes flow into the index without the store importing search.
type Indexer struct {
	index *CourseIndex
}

// NewIndexer wraps a course index for use as a store indexer.
func NewIndexer(index *CourseIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexCourse adds or updates a course in the search index.
func (i *Indexer) IndexCourse(_ context.Context, course *domain.Course, tagNames []string) error {
	return i.index.IndexDocument(NewCourseDocument(course, tagNames))
}

// DeleteCourse removes a course from the search index.
func (i *Indexer) DeleteCourse(_ context.Context, courseID string) error {
	return i.index.DeleteDocument(courseID)
}
