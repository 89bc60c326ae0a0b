package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
	"skydrive/internal/adapter/api/middleware"
)

func SetupFolderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	folderHandler := handler.GetFolderHandler()

	folders := e.Group("/v1/folders")
	folders.Use(authMiddleware.Authenticate)

	folders.POST("", folderHandler.Create)
	folders.GET("", folderHandler.List)
	folders.GET("/:id", folderHandler.Get)
	folders.PATCH("/:id", folderHandler.Rename)
	folders.DELETE("/:id", folderHandler.Delete)
}
