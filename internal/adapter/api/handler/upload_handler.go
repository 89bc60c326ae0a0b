package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/domain/service"
	"skydrive/internal/usecase"
	"skydrive/pkg/errors"
	"skydrive/pkg/response"
)

type UploadHandler struct {
	uploadUseCase *usecase.UploadUseCase
}

func NewUploadHandler(uploadUseCase *usecase.UploadUseCase) *UploadHandler {
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
	}
}

type initiateUploadRequest struct {
	Filename string `json:"filename" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Size     int64  `json:"size" validate:"gte=0"`
	FolderID string `json:"folderId"`
}

func (h *UploadHandler) Initiate(c echo.Context) error {
	var req initiateUploadRequest
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

	result, err := h.uploadUseCase.Declare(c.Request().Context(), userID, usecase.DeclareUploadInput{
		Filename: req.Filename,
		MimeType: req.MimeType,
		Size:     req.Size,
		FolderID: req.FolderID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type partURLsRequest struct {
	PartCount int `json:"partCount" validate:"required,min=1"`
}

func (h *UploadHandler) PartURLs(c echo.Context) error {
	var req partURLsRequest
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

	urls, err := h.uploadUseCase.PartURLs(c.Request().Context(), userID, c.Param("id"), req.PartCount)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"fileId":   c.Param("id"),
		"partUrls": urls,
	})
}

type completedPartRequest struct {
	PartNumber int    `json:"partNumber" validate:"required,min=1"`
	ETag       string `json:"etag" validate:"required"`
}

type completeUploadRequest struct {
	Parts []completedPartRequest `json:"parts" validate:"omitempty,dive"`
}

func (h *UploadHandler) Complete(c echo.Context) error {
	var req completeUploadRequest
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

	parts := make([]service.CompletedPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, service.CompletedPart{
			PartNumber: p.PartNumber,
			ETag:       p.ETag,
		})
	}

	file, err := h.uploadUseCase.Complete(c.Request().Context(), userID, c.Param("id"), parts)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}

func (h *UploadHandler) Abort(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := h.uploadUseCase.Abort(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, file)
}
