package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
	"skydrive/pkg/errors"
	"skydrive/pkg/response"
	"skydrive/pkg/utils"
)

type TrashHandler struct {
	trashUseCase   *usecase.TrashUseCase
	storageUseCase *usecase.StorageUseCase
}

func NewTrashHandler(trashUseCase *usecase.TrashUseCase, storageUseCase *usecase.StorageUseCase) *TrashHandler {
	return &TrashHandler{
		trashUseCase:   trashUseCase,
		storageUseCase: storageUseCase,
	}
}

func (h *TrashHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	files, total, err := h.trashUseCase.ListTrash(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, files, total, pagination.Page, pagination.PageSize)
}

func (h *TrashHandler) Empty(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	result, err := h.storageUseCase.EmptyTrash(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
