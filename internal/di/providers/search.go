package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/logger"
	"github.com/skillforge/skillforge-server/internal/search"
	"github.com/skillforge/skillforge-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.CourseIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve course index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewCourseIndex(search.Options{
		DataPath: cfg.Store.SearchIndexPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{CourseIndex: index}, nil
}

// ProvideSearchService provides the search service and wires course
// writes to the index.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(storeHandle.Store, indexHandle.CourseIndex, log.Logger)

	// Index every course write automatically
	storeHandle.SetSearchIndexer(search.NewIndexer(indexHandle.CourseIndex))

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when the catalog
// has courses. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	courses, err := storeHandle.ListCourses(ctx)
	if err != nil || len(courses) == 0 {
		return
	}

	log.Info("Search index is empty but courses exist, triggering initial reindex",
		"course_count", len(courses),
	)

	go func() {
		reindexCtx := context.Background()
		if err := searchService.ReindexAll(reindexCtx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
