package router

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, quotaMiddleware *middleware.QuotaMiddleware) {
	SetupUploadRouter(e, authMiddleware, quotaMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupTrashRouter(e, authMiddleware)
	SetupFolderRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupPlanRouter(e)
	SetupHealthRouter(e)
}
