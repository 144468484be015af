package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skillforge/skillforge-server/internal/search"
	"github.com/skillforge/skillforge-server/internal/store"
)

// SearchService exposes catalog search and keeps the index in step with
// the store.
type SearchService struct {
	store  *store.Store
	index  *search.CourseIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, index *search.CourseIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// Search runs a catalog search.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultSearchParams().Limit
	}
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the search index from the store. Used at startup
// when the mapping version changed and for manual recovery.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	snapshots, err := s.store.SnapshotCourses(ctx, courses)
	if err != nil {
		return err
	}

	docs := make([]*search.CourseDocument, 0, len(snapshots))
	for _, snap := range snapshots {
		docs = append(docs, search.NewCourseDocument(snap.Course, snap.TagNames))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index courses: %w", err)
	}

	s.logger.Info("search reindex complete", "courses", len(docs))

	return nil
}
