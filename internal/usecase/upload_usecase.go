package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

// S3 caps multipart transfers at 10000 parts.
const maxPartCount = 10000

// UploadUseCase owns the file record's lifecycle from declaration
// through completion or failure: it issues transfer credentials through
// the object storage gateway and reconciles quota when an upload lands.
type UploadUseCase struct {
	fileRepo   repository.FileRepository
	folderRepo repository.FolderRepository
	userRepo   repository.UserRepository
	planRepo   repository.PlanRepository
	storage    service.ObjectStorage
	transactor repository.Transactor
	quota      *QuotaUseCase
	cache      service.Cache
}

func NewUploadUseCase(
	fileRepo repository.FileRepository,
	folderRepo repository.FolderRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	storage service.ObjectStorage,
	transactor repository.Transactor,
	quota *QuotaUseCase,
	cache service.Cache,
) *UploadUseCase {
	return &UploadUseCase{
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

type DeclareUploadInput struct {
	Filename string
	MimeType string
	Size     int64
	FolderID string
}

type DeclareUploadResult struct {
	FileID     string                `json:"fileId"`
	Strategy   entity.UploadStrategy `json:"strategy"`
	StorageKey string                `json:"storageKey"`
	UploadURL  string                `json:"uploadUrl,omitempty"`
	UploadID   string                `json:"uploadId,omitempty"`
}

type PartURL struct {
	PartNumber int    `json:"partNumber"`
	URL        string `json:"url"`
}

// Declare creates an INITIATED record, derives its storage key and
// obtains transfer credentials. The quota admission check happens
// upstream, before this is called; the authoritative enforcement is the
// commit inside Complete. If credential acquisition fails after the
// record exists, the record is marked FAILED and any opened transfer is
// aborted, so a failed declare leaves nothing behind.
func (uc *UploadUseCase) Declare(ctx context.Context, ownerID string, input DeclareUploadInput) (*DeclareUploadResult, error) {
	if input.Filename == "" {
		return nil, errors.Validation("Filename is required", nil)
	}
	if input.Size < 0 {
		return nil, errors.Validation("Size must not be negative", nil)
	}
	if !entity.IsAllowedMimeType(input.MimeType) {
		return nil, errors.Validation("Unsupported file type", nil)
	}

	if input.FolderID != "" {
		folder, err := uc.folderRepo.GetByID(ctx, input.FolderID)
		if err != nil {
			return nil, err
		}
		if folder.OwnerID != ownerID {
			return nil, errors.NotFound("Folder", nil)
		}
	}

	now := time.Now()
	file := &entity.File{
		ID:        uuid.New().String(),
		Filename:  input.Filename,
		MimeType:  input.MimeType,
		FileType:  entity.FileTypeFromMime(input.MimeType),
		Size:      input.Size,
		Strategy:  SelectStrategy(input.Size),
		Status:    entity.UploadStatusInitiated,
		OwnerID:   ownerID,
		FolderID:  input.FolderID,
		Access:    entity.AccessPrivate,
		CreatedAt: now,
	}

	if err := uc.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	file.StorageKey = fmt.Sprintf("uploads/%s/%s/%s", ownerID, file.ID, file.Filename)
	if err := uc.fileRepo.Update(ctx, file); err != nil {
		uc.failDeclare(ctx, file, "")
		return nil, err
	}

	result := &DeclareUploadResult{
		FileID:     file.ID,
		Strategy:   file.Strategy,
		StorageKey: file.StorageKey,
	}

	if file.Strategy == entity.StrategySinglePart {
		url, err := uc.storage.PresignPut(ctx, file.StorageKey, file.MimeType)
		if err != nil {
			uc.failDeclare(ctx, file, "")
			return nil, err
		}
		result.UploadURL = url
		return result, nil
	}

	uploadID, err := uc.storage.CreateMultipart(ctx, file.StorageKey, file.MimeType)
	if err != nil {
		uc.failDeclare(ctx, file, "")
		return nil, err
	}

	file.UploadID = uploadID
	if err := uc.fileRepo.Update(ctx, file); err != nil {
		uc.failDeclare(ctx, file, uploadID)
		return nil, err
	}

	result.UploadID = uploadID
	return result, nil
}

// failDeclare is Declare's compensating action: abort the transfer if
// one was opened, then mark the record FAILED. Both steps are best
// effort; the original declare error is what surfaces to the caller.
func (uc *UploadUseCase) failDeclare(ctx context.Context, file *entity.File, uploadID string) {
	if uploadID != "" {
		if err := uc.storage.AbortMultipart(ctx, file.StorageKey, uploadID); err != nil {
			logger.Error("Failed to abort multipart transfer for %s: %v", file.ID, err)
		}
	}

	file.Status = entity.UploadStatusFailed
	file.UploadID = ""
	if err := uc.fileRepo.Update(ctx, file); err != nil {
		logger.Error("Failed to mark upload %s as failed: %v", file.ID, err)
	}
}

// PartURLs issues one write credential per part index, 1..partCount.
func (uc *UploadUseCase) PartURLs(ctx context.Context, ownerID, fileID string, partCount int) ([]PartURL, error) {
	if partCount < 1 || partCount > maxPartCount {
		return nil, errors.Validation(fmt.Sprintf("Part count must be between 1 and %d", maxPartCount), nil)
	}

	file, err := uc.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, errors.NotFound("File", nil)
	}
	if file.Strategy != entity.StrategyMultiPart || file.UploadID == "" {
		return nil, errors.InvalidState("File is not an open multipart upload")
	}
	if file.Status != entity.UploadStatusInitiated {
		return nil, errors.InvalidState("Upload is no longer in progress")
	}

	urls := make([]PartURL, 0, partCount)
	for i := 1; i <= partCount; i++ {
		url, err := uc.storage.PresignPart(ctx, file.StorageKey, file.UploadID, i)
		if err != nil {
			return nil, err
		}
		urls = append(urls, PartURL{PartNumber: i, URL: url})
	}

	return urls, nil
}

// Complete finalizes an upload as one atomic unit: stitch the parts at
// the object store (multipart only), mark the record COMPLETED and
// charge the owner's quota. A failure anywhere aborts the whole unit,
// so a failed stitch earns no partial credit. A second call on a COMPLETED
// record fails with ALREADY_COMPLETED and has no side effects, so
// clients can retry safely.
func (uc *UploadUseCase) Complete(ctx context.Context, ownerID, fileID string, parts []service.CompletedPart) (*entity.File, error) {
	var completed entity.File
	var firebaseUID string

	err := uc.transactor.RunAtomic(ctx, func(txCtx context.Context) error {
		file, err := uc.fileRepo.GetByID(txCtx, fileID)
		if err != nil {
			return err
		}
		if file.OwnerID != ownerID {
			return errors.NotFound("File", nil)
		}
		if file.Status == entity.UploadStatusCompleted {
			return errors.AlreadyCompleted("File already uploaded")
		}
		if file.Status == entity.UploadStatusFailed {
			return errors.InvalidState("Upload has failed and cannot be completed")
		}

		user, err := uc.userRepo.GetByID(txCtx, ownerID)
		if err != nil {
			return err
		}
		plan, err := uc.planRepo.GetByID(txCtx, user.PlanID)
		if err != nil {
			return err
		}

		if file.Strategy == entity.StrategyMultiPart {
			if file.UploadID == "" {
				return errors.InvalidState("Multipart upload was never opened")
			}
			if len(parts) == 0 {
				return errors.Validation("At least one part is required", nil)
			}
			if err := uc.storage.CompleteMultipart(txCtx, file.StorageKey, file.UploadID, parts); err != nil {
				return err
			}
		}

		now := time.Now()
		file.Status = entity.UploadStatusCompleted
		file.UploadedAt = &now
		if err := uc.fileRepo.Update(txCtx, file); err != nil {
			return err
		}

		if err := uc.quota.Commit(txCtx, user, plan, file.Size); err != nil {
			return err
		}

		completed = *file
		firebaseUID = user.FirebaseUID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, "user:"+firebaseUID)
	return &completed, nil
}

// Abort cancels an in-flight upload. It is always safe to call, even if
// no bytes ever reached the object store, and quota is untouched (none
// was ever committed). The terminal-state check and the FAILED write
// run in one atomic unit, so an Abort racing a Complete cannot clobber
// a committed COMPLETED record: exactly one side wins and the loser
// observes the terminal state. Gateway cleanup happens only after the
// FAILED state is durable; a Complete arriving later fails on the
// record, never on half-deleted bytes.
func (uc *UploadUseCase) Abort(ctx context.Context, ownerID, fileID string) (*entity.File, error) {
	var aborted entity.File
	var alreadyFailed bool
	var cleanupKey, cleanupUploadID string
	var multipart bool

	err := uc.transactor.RunAtomic(ctx, func(txCtx context.Context) error {
		file, err := uc.fileRepo.GetByID(txCtx, fileID)
		if err != nil {
			return err
		}
		if file.OwnerID != ownerID {
			return errors.NotFound("File", nil)
		}
		if file.Status == entity.UploadStatusCompleted {
			return errors.AlreadyCompleted("File already uploaded")
		}
		if file.Status == entity.UploadStatusFailed {
			aborted = *file
			alreadyFailed = true
			return nil
		}

		cleanupKey = file.StorageKey
		cleanupUploadID = file.UploadID
		multipart = file.Strategy == entity.StrategyMultiPart

		file.Status = entity.UploadStatusFailed
		file.UploadID = ""
		if err := uc.fileRepo.Update(txCtx, file); err != nil {
			return err
		}

		aborted = *file
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyFailed {
		if multipart && cleanupUploadID != "" {
			if err := uc.storage.AbortMultipart(ctx, cleanupKey, cleanupUploadID); err != nil {
				logger.Error("Failed to abort multipart transfer for %s: %v", fileID, err)
			}
		} else if cleanupKey != "" {
			// A single-part client may have already written the object.
			if err := uc.storage.DeleteObject(ctx, cleanupKey); err != nil {
				logger.Error("Failed to delete partial object %s: %v", cleanupKey, err)
			}
		}
	}

	return &aborted, nil
}
