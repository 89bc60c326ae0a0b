package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
)

const gib = int64(1024 * 1024 * 1024)

func TestDeclareSinglePart(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     10 * 1024 * 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StrategySinglePart, result.Strategy)
	assert.NotEmpty(t, result.UploadURL)
	assert.Empty(t, result.UploadID)
	assert.Equal(t, fmt.Sprintf("uploads/%s/%s/report.pdf", f.user.ID, result.FileID), result.StorageKey)

	file, err := f.fileRepo.GetByID(context.Background(), result.FileID)
	require.NoError(t, err)
	assert.Equal(t, entity.UploadStatusInitiated, file.Status)
	assert.Equal(t, entity.AccessPrivate, file.Access)
	assert.Equal(t, entity.FileTypeDocument, file.FileType)

	// Nothing is charged at declaration time.
	assert.Zero(t, f.storageUsed())
}

func TestDeclareMultiPart(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     500 * 1024 * 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StrategyMultiPart, result.Strategy)
	assert.Equal(t, "upload-1", result.UploadID)
	assert.Empty(t, result.UploadURL)

	file, err := f.fileRepo.GetByID(context.Background(), result.FileID)
	require.NoError(t, err)
	assert.Equal(t, "upload-1", file.UploadID)
}

func TestDeclareRejectsUnsupportedMime(t *testing.T) {
	f := newFixture(5 * gib)

	_, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "evil.exe",
		MimeType: "application/x-msdownload",
		Size:     100,
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestDeclareRejectsForeignFolder(t *testing.T) {
	f := newFixture(5 * gib)
	f.folderRepo.Create(context.Background(), &entity.Folder{ID: "folder-x", OwnerID: "someone-else"})

	_, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     100,
		FolderID: "folder-x",
	})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestDeclareRollbackOnPresignFailure(t *testing.T) {
	f := newFixture(5 * gib)
	f.storage.failPresignPut = true

	_, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     100,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UPSTREAM_FAILURE"))

	// The record exists but is terminally FAILED.
	files, err := f.fileRepo.ListByOwner(context.Background(), f.user.ID, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, entity.UploadStatusFailed, files[0].Status)
}

func TestDeclareRollbackOnMultipartOpenFailure(t *testing.T) {
	f := newFixture(5 * gib)
	f.storage.failCreateMultipart = true

	_, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     200 * 1024 * 1024,
	})
	require.Error(t, err)

	files, err := f.fileRepo.ListByOwner(context.Background(), f.user.ID, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, entity.UploadStatusFailed, files[0].Status)
	assert.Empty(t, files[0].UploadID)
}

func TestPartURLs(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     500 * 1024 * 1024,
	})
	require.NoError(t, err)

	urls, err := f.upload.PartURLs(context.Background(), f.user.ID, result.FileID, 5)
	require.NoError(t, err)
	require.Len(t, urls, 5)
	assert.Equal(t, 1, urls[0].PartNumber)
	assert.Equal(t, 5, urls[4].PartNumber)

	_, err = f.upload.PartURLs(context.Background(), f.user.ID, result.FileID, 0)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = f.upload.PartURLs(context.Background(), f.user.ID, result.FileID, maxPartCount+1)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestPartURLsRejectsSinglePart(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "small.pdf",
		MimeType: "application/pdf",
		Size:     100,
	})
	require.NoError(t, err)

	_, err = f.upload.PartURLs(context.Background(), f.user.ID, result.FileID, 2)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestCompleteSinglePart(t *testing.T) {
	f := newFixture(5 * gib)

	file, err := f.declareAndComplete(10*1024*1024, "report.pdf")
	require.NoError(t, err)

	assert.Equal(t, entity.UploadStatusCompleted, file.Status)
	assert.NotNil(t, file.UploadedAt)
	assert.Equal(t, int64(10*1024*1024), f.storageUsed())
	assert.Contains(t, f.cache.deleted, "user:fb-1")
}

func TestCompleteIsNotRepeatable(t *testing.T) {
	f := newFixture(5 * gib)

	file, err := f.declareAndComplete(10*1024*1024, "report.pdf")
	require.NoError(t, err)

	_, err = f.upload.Complete(context.Background(), f.user.ID, file.ID, nil)
	assert.True(t, errors.Is(err, "ALREADY_COMPLETED"))

	// Quota was charged exactly once.
	assert.Equal(t, int64(10*1024*1024), f.storageUsed())
}

func TestCompleteMultipartStitchesParts(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     500 * 1024 * 1024,
	})
	require.NoError(t, err)

	parts := []service.CompletedPart{
		{PartNumber: 1, ETag: "etag-1"},
		{PartNumber: 2, ETag: "etag-2"},
		{PartNumber: 3, ETag: "etag-3"},
	}
	file, err := f.upload.Complete(context.Background(), f.user.ID, result.FileID, parts)
	require.NoError(t, err)

	assert.Equal(t, entity.UploadStatusCompleted, file.Status)
	assert.Len(t, f.storage.completedParts, 3)
	assert.Equal(t, int64(500*1024*1024), f.storageUsed())
}

func TestCompleteMultipartRequiresParts(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     200 * 1024 * 1024,
	})
	require.NoError(t, err)

	_, err = f.upload.Complete(context.Background(), f.user.ID, result.FileID, nil)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestCompleteMultipartStitchFailureLeavesRecordOpen(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     200 * 1024 * 1024,
	})
	require.NoError(t, err)

	f.storage.failCompleteMultipart = true
	_, err = f.upload.Complete(context.Background(), f.user.ID, result.FileID, []service.CompletedPart{
		{PartNumber: 1, ETag: "etag-1"},
	})
	require.Error(t, err)

	// No partial credit: the record stays INITIATED and nothing was
	// charged, so the client can retry.
	file, err := f.fileRepo.GetByID(context.Background(), result.FileID)
	require.NoError(t, err)
	assert.Equal(t, entity.UploadStatusInitiated, file.Status)
	assert.Zero(t, f.storageUsed())
}

func TestCompleteRevalidatesQuota(t *testing.T) {
	f := newFixture(5 * gib)

	// Declared while space was available.
	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     3 * gib,
	})
	require.NoError(t, err)

	// Another upload landed in the meantime and ate the headroom.
	_, err = f.declareAndComplete(4*gib, "other.pdf")
	require.NoError(t, err)

	_, err = f.upload.Complete(context.Background(), f.user.ID, result.FileID, []service.CompletedPart{
		{PartNumber: 1, ETag: "etag-1"},
	})
	assert.True(t, errors.Is(err, "QUOTA_EXCEEDED"))
	assert.Equal(t, 4*gib, f.storageUsed())
}

func TestAbortMultipart(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     200 * 1024 * 1024,
	})
	require.NoError(t, err)

	file, err := f.upload.Abort(context.Background(), f.user.ID, result.FileID)
	require.NoError(t, err)

	assert.Equal(t, entity.UploadStatusFailed, file.Status)
	assert.Empty(t, file.UploadID)
	assert.Contains(t, f.storage.abortedUploads, "upload-1")
	assert.Zero(t, f.storageUsed())
}

func TestAbortSinglePartDeletesObject(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     100,
	})
	require.NoError(t, err)

	_, err = f.upload.Abort(context.Background(), f.user.ID, result.FileID)
	require.NoError(t, err)
	assert.Contains(t, f.storage.deletedKeys, result.StorageKey)
}

func TestAbortAfterCompleteFails(t *testing.T) {
	f := newFixture(5 * gib)

	file, err := f.declareAndComplete(100, "report.pdf")
	require.NoError(t, err)

	_, err = f.upload.Abort(context.Background(), f.user.ID, file.ID)
	assert.True(t, errors.Is(err, "ALREADY_COMPLETED"))
}

// hookTransactor lets a competing operation commit between an atomic
// unit being requested and its closure running, mimicking a lost race.
type hookTransactor struct {
	before func()
	fired  bool
}

func (t *hookTransactor) RunAtomic(ctx context.Context, fn func(txCtx context.Context) error) error {
	if t.before != nil && !t.fired {
		t.fired = true
		t.before()
	}
	return fn(ctx)
}

func TestAbortCannotOverrideCompletedUpload(t *testing.T) {
	f := newFixture(5 * gib)
	tx := &hookTransactor{}
	upload := NewUploadUseCase(f.fileRepo, f.folderRepo, f.userRepo, f.planRepo, f.storage, tx, f.quota, f.cache)

	result, err := upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "movie.mp4",
		MimeType: "video/mp4",
		Size:     200 * 1024 * 1024,
	})
	require.NoError(t, err)

	// The completion lands just before the abort's atomic unit runs.
	tx.before = func() {
		_, err := upload.Complete(context.Background(), f.user.ID, result.FileID, []service.CompletedPart{
			{PartNumber: 1, ETag: "etag-1"},
		})
		require.NoError(t, err)
	}

	_, err = upload.Abort(context.Background(), f.user.ID, result.FileID)
	assert.True(t, errors.Is(err, "ALREADY_COMPLETED"))

	// The committed completion and its charge survive untouched, and no
	// destructive gateway cleanup ran.
	file, err := f.fileRepo.GetByID(context.Background(), result.FileID)
	require.NoError(t, err)
	assert.Equal(t, entity.UploadStatusCompleted, file.Status)
	assert.Equal(t, int64(200*1024*1024), f.storageUsed())
	assert.Empty(t, f.storage.abortedUploads)
	assert.Empty(t, f.storage.deletedKeys)
}

func TestAbortIsIdempotentOnFailed(t *testing.T) {
	f := newFixture(5 * gib)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     100,
	})
	require.NoError(t, err)

	_, err = f.upload.Abort(context.Background(), f.user.ID, result.FileID)
	require.NoError(t, err)

	file, err := f.upload.Abort(context.Background(), f.user.ID, result.FileID)
	require.NoError(t, err)
	assert.Equal(t, entity.UploadStatusFailed, file.Status)
}
