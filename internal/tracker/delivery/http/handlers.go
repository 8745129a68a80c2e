package http

import (
	"net/http"
	"strconv"

	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/pkg/logger"
	"github.com/labstack/echo/v4"
)

type trackerHandler struct {
	trackerUC tracker.UseCase
	logger    logger.Logger
}

func NewTrackerHandler(trackerUC tracker.UseCase, log logger.Logger) tracker.Handlers {
	return &trackerHandler{
		trackerUC: trackerUC,
		logger:    log,
	}
}

// StartProcessing kicks off automatic processing of an uploaded video
// and subscribes the tracker to the new job.
func (h *trackerHandler) StartProcessing() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileID := c.Param("file_id")
		if fileID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid file id"})
		}
		job, err := h.trackerUC.StartProcessing(c.Request().Context(), fileID)
		if err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *trackerHandler) GetCurrentJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.trackerUC.CurrentJob()
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *trackerHandler) GetLogs() echo.HandlerFunc {
	return func(c echo.Context) error {
		logs, err := h.trackerUC.Logs()
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, logs)
	}
}

func (h *trackerHandler) GetConnection() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"connected": h.trackerUC.StreamConnected()})
	}
}

func (h *trackerHandler) GetHistory() echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		records, err := h.trackerUC.History(c.Request().Context(), limit)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, records)
	}
}

func (h *trackerHandler) StopTracking() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.trackerUC.Teardown(c.Request().Context()); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Tracking stopped"})
	}
}
