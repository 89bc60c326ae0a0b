package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
	"skydrive/internal/adapter/api/middleware"
)

func SetupUploadRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, quotaMiddleware *middleware.QuotaMiddleware) {
	uploadHandler := handler.GetUploadHandler()

	uploads := e.Group("/v1/uploads")
	uploads.Use(authMiddleware.Authenticate)

	uploads.POST("/initiate", uploadHandler.Initiate, quotaMiddleware.EnforceAvailable)
	uploads.POST("/:id/part-urls", uploadHandler.PartURLs)
	uploads.POST("/:id/complete", uploadHandler.Complete)
	uploads.POST("/:id/abort", uploadHandler.Abort)
}
