package server

import (
	"net/http"

	backendRest "github.com/clipdeck/clipdeck/internal/backend/rest"
	clipperBuilder "github.com/clipdeck/clipdeck/internal/clipper/builder"
	clipperHttp "github.com/clipdeck/clipdeck/internal/clipper/delivery/http"
	"github.com/clipdeck/clipdeck/internal/middleware"
	"github.com/clipdeck/clipdeck/internal/tracker"
	trackerHttp "github.com/clipdeck/clipdeck/internal/tracker/delivery/http"
	trackerRepository "github.com/clipdeck/clipdeck/internal/tracker/repository"
	trackerUsecase "github.com/clipdeck/clipdeck/internal/tracker/usecase"
	"github.com/clipdeck/clipdeck/pkg/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	var snapRepo tracker.SnapshotRepository
	if s.redisClient != nil {
		snapRepo = trackerRepository.NewSnapshotRedisRepo(s.redisClient, s.cfg)
	}
	var historyRepo tracker.HistoryRepository
	if s.db != nil {
		historyRepo = trackerRepository.NewHistoryRepo(s.db)
	}
	backendClient := backendRest.NewBackendClient(s.cfg)

	trackerUC := trackerUsecase.NewTrackerUseCase(s.cfg, backendClient, snapRepo, historyRepo, s.logger)
	builder := clipperBuilder.NewClipBuilder(s.cfg, trackerUC, s.logger)

	trackerHandlers := trackerHttp.NewTrackerHandler(trackerUC, s.logger)
	clipperHandlers := clipperHttp.NewClipperHandler(builder, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(echoMiddleware.RequestID())
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	jobsGroup := v1.Group("/jobs")
	clipsGroup := v1.Group("/clips")

	trackerHttp.MapTrackerRoutes(jobsGroup, trackerHandlers)
	clipperHttp.MapClipperRoutes(clipsGroup, clipperHandlers)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
