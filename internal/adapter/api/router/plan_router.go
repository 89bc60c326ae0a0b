package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/handler"
)

func SetupPlanRouter(e *echo.Echo) {
	planHandler := handler.GetPlanHandler()

	plans := e.Group("/v1/plans")
	plans.GET("", planHandler.List)
	plans.GET("/:id", planHandler.Get)
}
