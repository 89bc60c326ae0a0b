package usecase

import (
	"context"
	"net/http"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

// StorageUseCase guards physical deletion. Storage keys are shared
// between records (copies), so a backing object may only be removed
// once no record outside the deletion set still references it. The
// reference count must be taken inside the same atomic unit that
// removes the metadata, or a concurrent copy could slip in between.
type StorageUseCase struct {
	fileRepo   repository.FileRepository
	userRepo   repository.UserRepository
	storage    service.ObjectStorage
	transactor repository.Transactor
	quota      *QuotaUseCase
	cache      service.Cache
}

func NewStorageUseCase(
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	storage service.ObjectStorage,
	transactor repository.Transactor,
	quota *QuotaUseCase,
	cache service.Cache,
) *StorageUseCase {
	return &StorageUseCase{
		fileRepo:   fileRepo,
		userRepo:   userRepo,
		storage:    storage,
		transactor: transactor,
		quota:      quota,
		cache:      cache,
	}
}

// SafeDelete physically deletes the object behind storageKey unless a
// record outside excludingIDs still references it. Must be called from
// inside an atomic unit. Returns whether the object was deleted from
// the store; "still referenced" is a skip, not a failure.
func (uc *StorageUseCase) SafeDelete(ctx context.Context, storageKey string, excludingIDs []string) (bool, error) {
	count, err := uc.fileRepo.CountByStorageKey(ctx, storageKey, excludingIDs)
	if err != nil {
		return false, err
	}
	if count > 0 {
		logger.Debug("Keeping object %s: %d other records reference it", storageKey, count)
		return false, nil
	}

	if err := uc.storage.DeleteObject(ctx, storageKey); err != nil {
		return false, err
	}
	return true, nil
}

type PermanentDeleteResult struct {
	FileID           string `json:"fileId"`
	DeletedFromStore bool   `json:"deletedFromStore"`
}

// PermanentDelete removes a trashed file for good: the backing object
// (reference count permitting), the metadata record and the quota it
// held, all in one atomic unit.
func (uc *StorageUseCase) PermanentDelete(ctx context.Context, ownerID, fileID string) (*PermanentDeleteResult, error) {
	var result PermanentDeleteResult
	var firebaseUID string

	err := uc.transactor.RunAtomic(ctx, func(txCtx context.Context) error {
		file, err := uc.fileRepo.GetByID(txCtx, fileID)
		if err != nil {
			return err
		}
		if file.OwnerID != ownerID {
			return errors.NotFound("File", nil)
		}
		if !file.IsInTrash {
			return errors.InvalidState("Move file to trash first")
		}

		user, err := uc.userRepo.GetByID(txCtx, ownerID)
		if err != nil {
			return err
		}

		deleted, err := uc.SafeDelete(txCtx, file.StorageKey, []string{file.ID})
		if err != nil {
			return err
		}

		if err := uc.fileRepo.Delete(txCtx, file.ID); err != nil {
			return err
		}

		if file.Status == entity.UploadStatusCompleted {
			if err := uc.quota.Release(txCtx, user, file.Size); err != nil {
				return err
			}
		}

		result = PermanentDeleteResult{FileID: file.ID, DeletedFromStore: deleted}
		firebaseUID = user.FirebaseUID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, "user:"+firebaseUID)
	return &result, nil
}

type EmptyTrashResult struct {
	FilesDeleted   int `json:"filesDeleted"`
	ObjectsDeleted int `json:"objectsDeleted"`
}

// EmptyTrash permanently deletes every trashed file of the owner.
// Reference counts are taken against the entire trashed set, so two
// trashed copies of one key still delete the object exactly once, and
// a copy that remains active keeps the object alive. Quota is released
// in the same unit that removes the rows; only COMPLETED records
// contribute to the released sum.
func (uc *StorageUseCase) EmptyTrash(ctx context.Context, ownerID string) (*EmptyTrashResult, error) {
	var result EmptyTrashResult
	var firebaseUID string

	err := uc.transactor.RunAtomic(ctx, func(txCtx context.Context) error {
		trashed, err := uc.fileRepo.ListByOwner(txCtx, ownerID, true)
		if err != nil {
			return err
		}
		if len(trashed) == 0 {
			return errors.New("NOT_FOUND", "Nothing to empty in trash", http.StatusNotFound, nil)
		}

		user, err := uc.userRepo.GetByID(txCtx, ownerID)
		if err != nil {
			return err
		}

		trashedIDs := make([]string, 0, len(trashed))
		for _, file := range trashed {
			trashedIDs = append(trashedIDs, file.ID)
		}

		seen := make(map[string]bool)
		uniqueKeys := make([]string, 0, len(trashed))
		for _, file := range trashed {
			if !seen[file.StorageKey] {
				seen[file.StorageKey] = true
				uniqueKeys = append(uniqueKeys, file.StorageKey)
			}
		}

		objectsDeleted := 0
		for _, key := range uniqueKeys {
			deleted, err := uc.SafeDelete(txCtx, key, trashedIDs)
			if err != nil {
				return err
			}
			if deleted {
				objectsDeleted++
			}
		}

		if err := uc.fileRepo.DeleteByIDs(txCtx, trashedIDs); err != nil {
			return err
		}

		var totalSize int64
		for _, file := range trashed {
			if file.Status == entity.UploadStatusCompleted {
				totalSize += file.Size
			}
		}
		if totalSize > 0 {
			if err := uc.quota.Release(txCtx, user, totalSize); err != nil {
				return err
			}
		}

		result = EmptyTrashResult{FilesDeleted: len(trashed), ObjectsDeleted: objectsDeleted}
		firebaseUID = user.FirebaseUID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, "user:"+firebaseUID)
	return &result, nil
}
