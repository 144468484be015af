// Package di provides dependency injection configuration for the SkillForge server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/di/providers"
	"github.com/skillforge/skillforge-server/internal/logger"
	"github.com/skillforge/skillforge-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideCourseService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideEducatorService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SearchService](injector); err != nil {
		return err
	}

	// Business services
	if _, err := do.Invoke[*service.CourseService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.TagService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.UserService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.EducatorService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.RecommendationService](injector); err != nil {
		return err
	}

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	// Rebuild the search index if the catalog outgrew it
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
