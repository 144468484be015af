package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/skillforge/skillforge-server/internal/api"
	"github.com/skillforge/skillforge-server/internal/config"
	"github.com/skillforge/skillforge-server/internal/logger"
	"github.com/skillforge/skillforge-server/internal/service"
)

// HTTPServerHandle wraps the API server with Shutdownable.
type HTTPServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Course:         do.MustInvoke[*service.CourseService](i),
		Tag:            do.MustInvoke[*service.TagService](i),
		User:           do.MustInvoke[*service.UserService](i),
		Educator:       do.MustInvoke[*service.EducatorService](i),
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Search:         do.MustInvoke[*service.SearchService](i),
	}

	srv := api.New(cfg, storeHandle.Store, services, log.Logger)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "port", cfg.Server.Port)

	return &HTTPServerHandle{Server: srv}, nil
}
