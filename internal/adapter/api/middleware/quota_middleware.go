package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
	"skydrive/pkg/errors"
	"skydrive/pkg/response"
)

type QuotaMiddleware struct {
	quota *usecase.QuotaUseCase
}

func NewQuotaMiddleware(quota *usecase.QuotaUseCase) *QuotaMiddleware {
	return &QuotaMiddleware{
		quota: quota,
	}
}

// EnforceAvailable rejects upload declarations whose declared size does
// not fit the account's remaining quota. This is the fast admission
// check only; the commit at completion time re-validates inside its
// atomic unit. The body is read for the size and restored for the
// handler's own bind.
func (m *QuotaMiddleware) EnforceAvailable(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := c.Get("userId").(string)
		if !ok || userID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return response.Error(c, errors.BadRequest("Failed to read request body", err))
		}
		c.Request().Body = io.NopCloser(bytes.NewReader(body))

		var req struct {
			Size int64 `json:"size"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return response.Error(c, errors.BadRequest("Invalid request body", err))
		}

		if req.Size > 0 {
			if err := m.quota.CheckAvailable(c.Request().Context(), userID, req.Size); err != nil {
				return response.Error(c, err)
			}
		}

		return next(c)
	}
}
