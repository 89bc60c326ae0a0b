package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

type FolderUseCase struct {
	folderRepo repository.FolderRepository
	fileRepo   repository.FileRepository
}

func NewFolderUseCase(folderRepo repository.FolderRepository, fileRepo repository.FileRepository) *FolderUseCase {
	return &FolderUseCase{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
	}
}

type CreateFolderInput struct {
	Name           string
	ParentFolderID string
}

func (uc *FolderUseCase) Create(ctx context.Context, ownerID string, input CreateFolderInput) (*entity.Folder, error) {
	if input.Name == "" {
		return nil, errors.Validation("Folder name is required", nil)
	}

	if input.ParentFolderID != "" {
		parent, err := uc.folderRepo.GetByID(ctx, input.ParentFolderID)
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, errors.NotFound("Folder", nil)
		}
	}

	now := time.Now()
	folder := &entity.Folder{
		ID:             uuid.New().String(),
		Name:           input.Name,
		OwnerID:        ownerID,
		ParentFolderID: input.ParentFolderID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (uc *FolderUseCase) List(ctx context.Context, ownerID, parentFolderID, search string, limit, offset int) ([]*entity.Folder, int64, error) {
	return uc.folderRepo.List(ctx, ownerID, parentFolderID, search, limit, offset)
}

func (uc *FolderUseCase) Get(ctx context.Context, ownerID, folderID string) (*entity.Folder, error) {
	folder, err := uc.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != ownerID {
		return nil, errors.NotFound("Folder", nil)
	}
	return folder, nil
}

func (uc *FolderUseCase) Rename(ctx context.Context, ownerID, folderID, name string) (*entity.Folder, error) {
	if name == "" {
		return nil, errors.Validation("Folder name is required", nil)
	}

	folder, err := uc.Get(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	folder.UpdatedAt = time.Now()
	if err := uc.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Delete removes the folder record only. Files inside it are moved to
// the root rather than deleted; child folders are likewise reparented
// to the root. Deleting a folder never touches the object store.
func (uc *FolderUseCase) Delete(ctx context.Context, ownerID, folderID string) error {
	folder, err := uc.Get(ctx, ownerID, folderID)
	if err != nil {
		return err
	}

	files, _, err := uc.fileRepo.List(ctx, ownerID, repository.FileFilter{FolderID: folder.ID}, 0, 0)
	if err != nil {
		return err
	}
	for _, file := range files {
		file.FolderID = ""
		if err := uc.fileRepo.Update(ctx, file); err != nil {
			logger.Error("Failed to move file %s out of deleted folder: %v", file.ID, err)
		}
	}

	children, _, err := uc.folderRepo.List(ctx, ownerID, folder.ID, "", 0, 0)
	if err != nil {
		return err
	}
	for _, child := range children {
		child.ParentFolderID = ""
		child.UpdatedAt = time.Now()
		if err := uc.folderRepo.Update(ctx, child); err != nil {
			logger.Error("Failed to reparent folder %s: %v", child.ID, err)
		}
	}

	return uc.folderRepo.Delete(ctx, folder.ID)
}
