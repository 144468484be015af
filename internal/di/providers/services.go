package providers

import (
	"github.com/samber/do/v2"

	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/logger"
	"github.com/skillforge/skillforge-server/internal/recommend"
	"github.com/skillforge/skillforge-server/internal/service"
)

// ProvideCourseService provides the course catalog service.
func ProvideCourseService(i do.Injector) (*service.CourseService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCourseService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user and enrollment service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideEducatorService provides the educator dashboard service.
func ProvideEducatorService(i do.Injector) (*service.EducatorService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEducatorService(storeHandle.Store, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service with
// scoring parameters from configuration.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	params := recommend.DefaultParams()
	params.TagWeight = cfg.Recommend.TagWeight
	params.RatingWeight = cfg.Recommend.RatingWeight
	params.PopularityWeight = cfg.Recommend.PopularityWeight
	params.PopularityScale = cfg.Recommend.PopularityScale
	params.DefaultLimit = cfg.Recommend.DefaultLimit
	params.MaxLimit = cfg.Recommend.MaxLimit

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return service.NewRecommendationService(storeHandle.Store, params, log.Logger), nil
}
