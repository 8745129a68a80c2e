package tracker

import "github.com/labstack/echo/v4"

type Handlers interface {
	StartProcessing() echo.HandlerFunc
	GetCurrentJob() echo.HandlerFunc
	GetLogs() echo.HandlerFunc
	GetConnection() echo.HandlerFunc
	GetHistory() echo.HandlerFunc
	StopTracking() echo.HandlerFunc
}
