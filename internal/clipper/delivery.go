package clipper

import "github.com/labstack/echo/v4"

type Handlers interface {
	GetSelection() echo.HandlerFunc
	MarkStart() echo.HandlerFunc
	MarkEnd() echo.HandlerFunc
	CommitClip() echo.HandlerFunc
	RemoveClip() echo.HandlerFunc
	Submit() echo.HandlerFunc
}
