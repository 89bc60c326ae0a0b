package usecase

import (
	"context"
	"time"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
)

// TrashUseCase moves files between active and trashed states, tracking
// the original placement so restore puts a file back where it was.
type TrashUseCase struct {
	fileRepo repository.FileRepository
}

func NewTrashUseCase(fileRepo repository.FileRepository) *TrashUseCase {
	return &TrashUseCase{
		fileRepo: fileRepo,
	}
}

func (uc *TrashUseCase) MoveToTrash(ctx context.Context, ownerID, fileID string) (*entity.File, error) {
	file, err := uc.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, errors.NotFound("File", nil)
	}
	if file.IsInTrash {
		return nil, errors.AlreadyTrashed("File is already in trash")
	}
	if file.Status != entity.UploadStatusCompleted {
		return nil, errors.InvalidState("Only completed uploads can be moved to trash")
	}

	now := time.Now()
	file.OriginalFolderID = file.FolderID
	file.FolderID = ""
	file.IsInTrash = true
	file.DeletedAt = &now

	if err := uc.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// RestoreFromTrash puts the file back into its pre-trash folder. An
// empty OriginalFolderID means the file returns to the root.
func (uc *TrashUseCase) RestoreFromTrash(ctx context.Context, ownerID, fileID string) (*entity.File, error) {
	file, err := uc.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, errors.NotFound("File", nil)
	}
	if !file.IsInTrash {
		return nil, errors.InvalidState("File is not in trash")
	}

	file.FolderID = file.OriginalFolderID
	file.OriginalFolderID = ""
	file.IsInTrash = false
	file.DeletedAt = nil

	if err := uc.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *TrashUseCase) ListTrash(ctx context.Context, ownerID string, limit, offset int) ([]*entity.File, int64, error) {
	return uc.fileRepo.List(ctx, ownerID, repository.FileFilter{
		InTrash:  true,
		SortDesc: true,
	}, limit, offset)
}
