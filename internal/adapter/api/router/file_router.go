package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
	"skydrive/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.GET("", fileHandler.List)
	files.GET("/search", fileHandler.Search)
	files.GET("/:id", fileHandler.Get)
	files.GET("/:id/download", fileHandler.Download)
	files.PATCH("/:id", fileHandler.Update)
	files.POST("/:id/copy", fileHandler.Copy)
	files.POST("/:id/access", fileHandler.ToggleAccess)
	files.POST("/:id/trash", fileHandler.MoveToTrash)
	files.POST("/:id/restore", fileHandler.Restore)
	files.DELETE("/:id", fileHandler.PermanentDelete)
}
