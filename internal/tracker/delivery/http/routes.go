package http

import (
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/labstack/echo/v4"
)

func MapTrackerRoutes(trackGroup *echo.Group, h tracker.Handlers) {
	trackGroup.POST("/process/:file_id", h.StartProcessing())
	trackGroup.GET("/current", h.GetCurrentJob())
	trackGroup.GET("/current/logs", h.GetLogs())
	trackGroup.GET("/current/connection", h.GetConnection())
	trackGroup.GET("/history", h.GetHistory())
	trackGroup.DELETE("/current", h.StopTracking())
}
