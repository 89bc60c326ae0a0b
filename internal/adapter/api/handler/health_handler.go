package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"skydrive/internal/infrastructure/firebase"
)

type HealthHandler struct {
	authClient *firebase.AuthClient
}

var healthHandler *HealthHandler

func NewHealthHandler(authClient *firebase.AuthClient) *HealthHandler {
	return &HealthHandler{
		authClient: authClient,
	}
}

func SetupHealthHandler(authClient *firebase.AuthClient) {
	healthHandler = NewHealthHandler(authClient)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}
