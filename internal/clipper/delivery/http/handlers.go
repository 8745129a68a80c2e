package http

import (
	"net/http"
	"strconv"

	"github.com/clipdeck/clipdeck/internal/clipper"
	"github.com/clipdeck/clipdeck/pkg/logger"
	"github.com/clipdeck/clipdeck/pkg/utils"
	"github.com/labstack/echo/v4"
)

type markInput struct {
	Time float64 `json:"time" validate:"gte=0"`
}

type clipperHandler struct {
	builder clipper.Builder
	logger  logger.Logger
}

func NewClipperHandler(builder clipper.Builder, log logger.Logger) clipper.Handlers {
	return &clipperHandler{
		builder: builder,
		logger:  log,
	}
}

func (h *clipperHandler) GetSelection() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.builder.Current())
	}
}

func (h *clipperHandler) MarkStart() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &markInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if !h.builder.SetStart(input.Time) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "Start mark rejected"})
		}
		return c.JSON(http.StatusOK, h.builder.Current())
	}
}

func (h *clipperHandler) MarkEnd() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &markInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := utils.ValidateStruct(c.Request().Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if !h.builder.SetEnd(input.Time) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "End mark must come after the start mark"})
		}
		return c.JSON(http.StatusOK, h.builder.Current())
	}
}

func (h *clipperHandler) CommitClip() echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.builder.CommitClip() {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "Cannot commit clip: markers missing or clip limit reached"})
		}
		return c.JSON(http.StatusOK, h.builder.Current())
	}
}

func (h *clipperHandler) RemoveClip() echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid clip index"})
		}
		if !h.builder.RemoveClip(index) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No clip at that index"})
		}
		return c.JSON(http.StatusOK, h.builder.Current())
	}
}

func (h *clipperHandler) Submit() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileID := c.Param("file_id")
		if fileID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid file id"})
		}
		job, err := h.builder.Submit(c.Request().Context(), fileID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}
