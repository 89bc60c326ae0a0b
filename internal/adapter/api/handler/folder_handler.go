package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
	"skydrive/pkg/errors"
	"skydrive/pkg/response"
	"skydrive/pkg/utils"
)

type FolderHandler struct {
	folderUseCase *usecase.FolderUseCase
}

func NewFolderHandler(folderUseCase *usecase.FolderUseCase) *FolderHandler {
	return &FolderHandler{
		folderUseCase: folderUseCase,
	}
}

type createFolderRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=255"`
	ParentFolderID string `json:"parentFolderId"`
}

func (h *FolderHandler) Create(c echo.Context) error {
	var req createFolderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	folder, err := h.folderUseCase.Create(c.Request().Context(), userID, usecase.CreateFolderInput{
		Name:           req.Name,
		ParentFolderID: req.ParentFolderID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, folder)
}

func (h *FolderHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	folders, total, err := h.folderUseCase.List(
		c.Request().Context(),
		userID,
		c.QueryParam("parentFolderId"),
		c.QueryParam("search"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, folders, total, pagination.Page, pagination.PageSize)
}

func (h *FolderHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	folder, err := h.folderUseCase.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, folder)
}

type renameFolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

func (h *FolderHandler) Rename(c echo.Context) error {
	var req renameFolderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	folder, err := h.folderUseCase.Rename(c.Request().Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, folder)
}

func (h *FolderHandler) Delete(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	if err := h.folderUseCase.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Folder deleted successfully",
	})
}
