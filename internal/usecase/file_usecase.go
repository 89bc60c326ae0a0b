package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
)

type FileUseCase struct {
	fileRepo   repository.FileRepository
	folderRepo repository.FolderRepository
	userRepo   repository.UserRepository
	planRepo   repository.PlanRepository
	storage    service.ObjectStorage
	transactor repository.Transactor
	quota      *QuotaUseCase
	cache      service.Cache
}

func NewFileUseCase(
	fileRepo repository.FileRepository,
	folderRepo repository.FolderRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	storage service.ObjectStorage,
	transactor repository.Transactor,
	quota *QuotaUseCase,
	cache service.Cache,
) *FileUseCase {
	return &FileUseCase{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		userRepo:   userRepo,
		planRepo:   planRepo,
		storage:    storage,
		transactor: transactor,
		quota:      quota,
		cache:      cache,
	}
}

type ListFilesInput struct {
	FolderID string
	FileType string
	Search   string
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}

func (uc *FileUseCase) List(ctx context.Context, ownerID string, input ListFilesInput) ([]*entity.File, int64, error) {
	filter := repository.FileFilter{
		FolderID: input.FolderID,
		InTrash:  false,
		Search:   input.Search,
		SortBy:   input.SortBy,
		SortDesc: input.Order != "asc",
	}
	if input.FileType != "" {
		filter.FileType = entity.FileType(input.FileType)
	}

	return uc.fileRepo.List(ctx, ownerID, filter, input.Limit, input.Offset)
}

func (uc *FileUseCase) Get(ctx context.Context, ownerID, fileID string) (*entity.File, error) {
	file, err := uc.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, errors.NotFound("File", nil)
	}
	return file, nil
}

type SearchResult struct {
	Files   []*entity.File   `json:"files"`
	Folders []*entity.Folder `json:"folders"`
}

func (uc *FileUseCase) GlobalSearch(ctx context.Context, ownerID, query string) (*SearchResult, error) {
	if query == "" {
		return nil, errors.Validation("Search query is required", nil)
	}

	files, err := uc.fileRepo.Search(ctx, ownerID, query, 10)
	if err != nil {
		return nil, err
	}
	folders, err := uc.folderRepo.Search(ctx, ownerID, query, 10)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Files: files, Folders: folders}, nil
}

func (uc *FileUseCase) Rename(ctx context.Context, ownerID, fileID, filename string) (*entity.File, error) {
	if filename == "" {
		return nil, errors.Validation("Filename is required", nil)
	}

	file, err := uc.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsInTrash {
		return nil, errors.InvalidState("Cannot rename a trashed file")
	}

	file.Filename = filename
	if err := uc.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Move relocates a file to another folder; an empty folder ID means
// the root.
func (uc *FileUseCase) Move(ctx context.Context, ownerID, fileID, folderID string) (*entity.File, error) {
	file, err := uc.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if file.IsInTrash {
		return nil, errors.InvalidState("Cannot move a trashed file")
	}

	if folderID != "" {
		folder, err := uc.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return nil, err
		}
		if folder.OwnerID != ownerID {
			return nil, errors.NotFound("Folder", nil)
		}
	}

	file.FolderID = folderID
	if err := uc.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *FileUseCase) ToggleAccess(ctx context.Context, ownerID, fileID string) (*entity.File, error) {
	file, err := uc.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	if file.Access == entity.AccessPublic {
		file.Access = entity.AccessPrivate
	} else {
		file.Access = entity.AccessPublic
	}

	if err := uc.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Copy creates a second record pointing at the same storage key; no
// bytes move. The copy is COMPLETED immediately, so it is charged
// against quota inside the same atomic unit that creates it. Shared
// keys are what the reference-counted deletion guard exists for.
func (uc *FileUseCase) Copy(ctx context.Context, ownerID, fileID, folderID string) (*entity.File, error) {
	src, err := uc.Get(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if src.IsInTrash {
		return nil, errors.InvalidState("Cannot copy a trashed file")
	}
	if src.Status != entity.UploadStatusCompleted {
		return nil, errors.InvalidState("Only completed uploads can be copied")
	}

	if folderID != "" {
		folder, err := uc.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return nil, err
		}
		if folder.OwnerID != ownerID {
			return nil, errors.NotFound("Folder", nil)
		}
	}

	if err := uc.quota.CheckAvailable(ctx, ownerID, src.Size); err != nil {
		return nil, err
	}

	var copied entity.File
	var firebaseUID string

	err = uc.transactor.RunAtomic(ctx, func(txCtx context.Context) error {
		user, err := uc.userRepo.GetByID(txCtx, ownerID)
		if err != nil {
			return err
		}
		plan, err := uc.planRepo.GetByID(txCtx, user.PlanID)
		if err != nil {
			return err
		}

		now := time.Now()
		clone := &entity.File{
			ID:         uuid.New().String(),
			Filename:   src.Filename,
			MimeType:   src.MimeType,
			FileType:   src.FileType,
			Size:       src.Size,
			StorageKey: src.StorageKey,
			Strategy:   src.Strategy,
			Status:     entity.UploadStatusCompleted,
			OwnerID:    ownerID,
			FolderID:   folderID,
			Access:     src.Access,
			CreatedAt:  now,
			UploadedAt: &now,
		}

		if err := uc.fileRepo.Create(txCtx, clone); err != nil {
			return err
		}
		if err := uc.quota.Commit(txCtx, user, plan, clone.Size); err != nil {
			return err
		}

		copied = *clone
		firebaseUID = user.FirebaseUID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, "user:"+firebaseUID)
	return &copied, nil
}

// DownloadURL issues a presigned GET. Public files are readable by
// anyone who knows the id; private files only by their owner.
func (uc *FileUseCase) DownloadURL(ctx context.Context, requesterID, fileID string) (string, error) {
	file, err := uc.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if file.Access != entity.AccessPublic && file.OwnerID != requesterID {
		return "", errors.NotFound("File", nil)
	}
	if file.Status != entity.UploadStatusCompleted {
		return "", errors.InvalidState("Upload is not finished")
	}
	if file.IsInTrash {
		return "", errors.InvalidState("File is in trash")
	}

	return uc.storage.PresignGet(ctx, file.StorageKey)
}
