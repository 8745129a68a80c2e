package http

import (
	"github.com/clipdeck/clipdeck/internal/clipper"
	"github.com/labstack/echo/v4"
)

func MapClipperRoutes(clipGroup *echo.Group, h clipper.Handlers) {
	clipGroup.GET("", h.GetSelection())
	clipGroup.POST("/start", h.MarkStart())
	clipGroup.POST("/end", h.MarkEnd())
	clipGroup.POST("/commit", h.CommitClip())
	clipGroup.DELETE("/:index", h.RemoveClip())
	clipGroup.POST("/submit/:file_id", h.Submit())
}
