package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"skydrive/internal/infrastructure/firebase"
	"skydrive/internal/usecase"
)

type AuthMiddleware struct {
	authClient  *firebase.AuthClient
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authClient *firebase.AuthClient, authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authClient:  authClient,
		authUseCase: authUseCase,
	}
}

// Authenticate verifies the bearer token and resolves the Firebase
// identity to a domain user, provisioning one on first sight. Handlers
// read "userId" for ownership checks and "uid" for the raw identity.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := m.authClient.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)

		user, err := m.authUseCase.SyncUser(c.Request().Context(), token.UID, email, name)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Failed to resolve user")
		}

		c.Set("uid", token.UID)
		c.Set("userId", user.ID)

		return next(c)
	}
}
