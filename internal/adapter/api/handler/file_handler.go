package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
	"skydrive/pkg/errors"
	"skydrive/pkg/response"
	"skydrive/pkg/utils"
)

type FileHandler struct {
	fileUseCase    *usecase.FileUseCase
	trashUseCase   *usecase.TrashUseCase
	storageUseCase *usecase.StorageUseCase
}

func NewFileHandler(fileUseCase *usecase.FileUseCase, trashUseCase *usecase.TrashUseCase, storageUseCase *usecase.StorageUseCase) *FileHandler {
	return &FileHandler{
		fileUseCase:    fileUseCase,
		trashUseCase:   trashUseCase,
		storageUseCase: storageUseCase,
	}
}

func (h *FileHandler) List(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	files, total, err := h.fileUseCase.List(c.Request().Context(), userID, usecase.ListFilesInput{
		FolderID: c.QueryParam("folderId"),
		FileType: c.QueryParam("fileType"),
		Search:   c.QueryParam("search"),
		SortBy:   c.QueryParam("sortBy"),
		Order:    c.QueryParam("order"),
		Limit:    pagination.PageSize,
		Offset:   pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, files, total, pagination.Page, pagination.PageSize)
}

func (h *FileHandler) Search(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	result, err := h.fileUseCase.GlobalSearch(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *FileHandler) Get(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.fileUseCase.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}

func (h *FileHandler) Download(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	url, err := h.fileUseCase.DownloadURL(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"url": url,
	})
}

type updateFileRequest struct {
	Filename *string `json:"filename" validate:"omitempty,min=1"`
	FolderID *string `json:"folderId"`
}

// Update handles rename and move. Fields are pointers so "move to
// root" (empty folderId) is distinguishable from "no move".
func (h *FileHandler) Update(c echo.Context) error {
	var req updateFileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	if req.Filename == nil && req.FolderID == nil {
		return response.Error(c, errors.Validation("Nothing to update", nil))
	}

	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.fileUseCase.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if req.Filename != nil {
		file, err = h.fileUseCase.Rename(c.Request().Context(), userID, c.Param("id"), *req.Filename)
		if err != nil {
			return response.Error(c, err)
		}
	}
	if req.FolderID != nil {
		file, err = h.fileUseCase.Move(c.Request().Context(), userID, c.Param("id"), *req.FolderID)
		if err != nil {
			return response.Error(c, err)
		}
	}

	return response.Success(c, file)
}

type copyFileRequest struct {
	FolderID string `json:"folderId"`
}

func (h *FileHandler) Copy(c echo.Context) error {
	var req copyFileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.fileUseCase.Copy(c.Request().Context(), userID, c.Param("id"), req.FolderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, file)
}

func (h *FileHandler) ToggleAccess(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.fileUseCase.ToggleAccess(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}

func (h *FileHandler) MoveToTrash(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.trashUseCase.MoveToTrash(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}

func (h *FileHandler) Restore(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.trashUseCase.RestoreFromTrash(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}

func (h *FileHandler) PermanentDelete(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	result, err := h.storageUseCase.PermanentDelete(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
