package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
	"skydrive/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.Me)
	users.GET("/me/storage", userHandler.Storage)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.DELETE("/me", userHandler.DeleteAccount)
}
