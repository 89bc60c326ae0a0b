package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Listing endpoints page through file, folder and trash collections
// with page/limit query parameters. The page size is clamped so one
// response stays bounded no matter what the client asks for.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams is the page window extracted from a request. Offset
// is derived, ready to hand to a repository listing.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
