package handler

import (
	"github.com/labstack/echo/v4"

	"skydrive/internal/usecase"
)

var (
	uploadHandler *UploadHandler
	fileHandler   *FileHandler
	trashHandler  *TrashHandler
	folderHandler *FolderHandler
	userHandler   *UserHandler
	planHandler   *PlanHandler
)

func Setup(
	uploadUseCase *usecase.UploadUseCase,
	fileUseCase *usecase.FileUseCase,
	trashUseCase *usecase.TrashUseCase,
	storageUseCase *usecase.StorageUseCase,
	folderUseCase *usecase.FolderUseCase,
	userUseCase *usecase.UserUseCase,
	planUseCase *usecase.PlanUseCase,
) {
	uploadHandler = NewUploadHandler(uploadUseCase)
	fileHandler = NewFileHandler(fileUseCase, trashUseCase, storageUseCase)
	trashHandler = NewTrashHandler(trashUseCase, storageUseCase)
	folderHandler = NewFolderHandler(folderUseCase)
	userHandler = NewUserHandler(userUseCase)
	planHandler = NewPlanHandler(planUseCase)
}

func GetUploadHandler() *UploadHandler {
	return uploadHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func GetTrashHandler() *TrashHandler {
	return trashHandler
}

func GetFolderHandler() *FolderHandler {
	return folderHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetPlanHandler() *PlanHandler {
	return planHandler
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("userId").(string); ok {
		return uid
	}
	return ""
}
