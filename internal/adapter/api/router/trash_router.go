package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
	"skydrive/internal/adapter/api/middleware"
)

func SetupTrashRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	trashHandler := handler.GetTrashHandler()

	trash := e.Group("/v1/trash")
	trash.Use(authMiddleware.Authenticate)

	trash.GET("", trashHandler.List)
	trash.DELETE("", trashHandler.Empty)
}
