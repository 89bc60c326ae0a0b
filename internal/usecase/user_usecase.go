package usecase

import (
	"context"
	"time"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	planRepo   repository.PlanRepository
	fileRepo   repository.FileRepository
	folderRepo repository.FolderRepository
	storageUC  *StorageUseCase
	quota      *QuotaUseCase
	cache      service.Cache
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	fileRepo repository.FileRepository,
	folderRepo repository.FolderRepository,
	storageUC *StorageUseCase,
	quota *QuotaUseCase,
	cache service.Cache,
) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		planRepo:   planRepo,
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		storageUC:  storageUC,
		quota:      quota,
		cache:      cache,
	}
}

type UserProfile struct {
	User  *entity.User `json:"user"`
	Plan  *entity.Plan `json:"plan"`
	Quota *QuotaInfo   `json:"quota"`
}

func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := uc.planRepo.GetByID(ctx, user.PlanID)
	if err != nil {
		return nil, err
	}
	quota, err := uc.quota.Available(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, Plan: plan, Quota: quota}, nil
}

type StorageStats struct {
	TotalFiles   int64            `json:"totalFiles"`
	TotalFolders int64            `json:"totalFolders"`
	TrashedFiles int64            `json:"trashedFiles"`
	Used         int64            `json:"used"`
	Limit        int64            `json:"limit"`
	ByType       map[string]int64 `json:"byType"`
}

// Stats summarizes the account: counts, quota figures and a per-type
// byte distribution over active COMPLETED files.
func (uc *UserUseCase) Stats(ctx context.Context, userID string) (*StorageStats, error) {
	quota, err := uc.quota.Available(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := uc.fileRepo.ListByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	trashed, err := uc.fileRepo.ListByOwner(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	folderCount, err := uc.folderRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	byType := map[string]int64{
		string(entity.FileTypeImage):    0,
		string(entity.FileTypeVideo):    0,
		string(entity.FileTypeAudio):    0,
		string(entity.FileTypeDocument): 0,
	}
	var totalFiles int64
	for _, file := range active {
		if file.Status != entity.UploadStatusCompleted {
			continue
		}
		totalFiles++
		byType[string(file.FileType)] += file.Size
	}

	return &StorageStats{
		TotalFiles:   totalFiles,
		TotalFolders: folderCount,
		TrashedFiles: int64(len(trashed)),
		Used:         quota.Used,
		Limit:        quota.Limit,
		ByType:       byType,
	}, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, name string) (*entity.User, error) {
	if name == "" {
		return nil, errors.Validation("Name is required", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, "user:"+user.FirebaseUID)
	return user, nil
}

// DeleteAccount removes every trace of the user: trashed and active
// files (objects included, reference counts permitting), folders and
// finally the user record. It runs outside a single atomic unit since
// an account can hold far more records than one transaction allows;
// the steps are ordered so a crash mid-way leaves only re-deletable
// leftovers, never a dangling object without a record.
func (uc *UserUseCase) DeleteAccount(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	active, err := uc.fileRepo.ListByOwner(ctx, userID, false)
	if err != nil {
		return err
	}
	trashed, err := uc.fileRepo.ListByOwner(ctx, userID, true)
	if err != nil {
		return err
	}

	all := append(active, trashed...)
	allIDs := make([]string, 0, len(all))
	for _, file := range all {
		allIDs = append(allIDs, file.ID)
	}

	seen := make(map[string]bool)
	for _, file := range all {
		if file.StorageKey == "" || seen[file.StorageKey] {
			continue
		}
		seen[file.StorageKey] = true
		if _, err := uc.storageUC.SafeDelete(ctx, file.StorageKey, allIDs); err != nil {
			logger.Error("Failed to delete object %s during account removal: %v", file.StorageKey, err)
		}
	}

	if err := uc.fileRepo.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := uc.folderRepo.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	uc.cache.Delete(ctx, "user:"+user.FirebaseUID)
	logger.Info("Deleted account %s (%d files)", userID, len(all))
	return nil
}
