package server

import (
	"net/http"

	"github.com/berfenger/hybridplant/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/version", s.VersionHandler)

	api := e.Group("/api")

	api.GET("/diagnosis/:device/defaults", s.DiagnosisDefaultsHandler)
	api.POST("/diagnosis/:device", s.DiagnoseHandler)

	api.GET("/maintenance", s.MaintenanceStateHandler)
	api.POST("/maintenance/reset", s.MaintenanceResetHandler)
	api.POST("/maintenance/:device/hours", s.MaintenanceAddHoursHandler)
	api.POST("/maintenance/:device/perform", s.MaintenancePerformHandler)

	api.GET("/stability", s.StabilityHandler)

	api.GET("/control", s.ControlStateHandler)
	api.GET("/control/history", s.ControlHistoryHandler)
	api.POST("/control/step", s.ControlStepHandler)
	api.POST("/control/reset", s.ControlResetHandler)
	api.POST("/control/autorun", s.ControlAutorunHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, HEALTHCHECK_TIMEOUT).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"version":     versioninfo.Short(),
		"revision":    versioninfo.Revision,
		"last_commit": versioninfo.LastCommit,
		"dirty_build": versioninfo.DirtyBuild,
	})
}
