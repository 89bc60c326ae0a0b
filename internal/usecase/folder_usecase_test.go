package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skydrive/pkg/errors"
)

func TestFolderCreateAndRename(t *testing.T) {
	f := newFixture(5 * gib)

	folder, err := f.folders.Create(context.Background(), f.user.ID, CreateFolderInput{Name: "docs"})
	require.NoError(t, err)
	assert.Equal(t, "docs", folder.Name)
	assert.Empty(t, folder.ParentFolderID)

	child, err := f.folders.Create(context.Background(), f.user.ID, CreateFolderInput{
		Name:           "2026",
		ParentFolderID: folder.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, child.ParentFolderID)

	renamed, err := f.folders.Rename(context.Background(), f.user.ID, folder.ID, "documents")
	require.NoError(t, err)
	assert.Equal(t, "documents", renamed.Name)
}

func TestFolderCreateUnderForeignParentFails(t *testing.T) {
	f := newFixture(5 * gib)

	foreign, err := f.folders.Create(context.Background(), "someone-else", CreateFolderInput{Name: "theirs"})
	require.NoError(t, err)

	_, err = f.folders.Create(context.Background(), f.user.ID, CreateFolderInput{
		Name:           "mine",
		ParentFolderID: foreign.ID,
	})
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestFolderDeleteMovesContentsToRoot(t *testing.T) {
	f := newFixture(5 * gib)

	folder, err := f.folders.Create(context.Background(), f.user.ID, CreateFolderInput{Name: "docs"})
	require.NoError(t, err)
	child, err := f.folders.Create(context.Background(), f.user.ID, CreateFolderInput{
		Name:           "sub",
		ParentFolderID: folder.ID,
	})
	require.NoError(t, err)

	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: "report.pdf",
		MimeType: "application/pdf",
		Size:     100,
		FolderID: folder.ID,
	})
	require.NoError(t, err)
	_, err = f.upload.Complete(context.Background(), f.user.ID, result.FileID, nil)
	require.NoError(t, err)

	require.NoError(t, f.folders.Delete(context.Background(), f.user.ID, folder.ID))

	_, err = f.folders.Get(context.Background(), f.user.ID, folder.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	// File and child folder moved to root, not deleted.
	file, err := f.fileRepo.GetByID(context.Background(), result.FileID)
	require.NoError(t, err)
	assert.Empty(t, file.FolderID)

	orphan, err := f.folderRepo.GetByID(context.Background(), child.ID)
	require.NoError(t, err)
	assert.Empty(t, orphan.ParentFolderID)

	// The object store was never touched.
	assert.Empty(t, f.storage.deletedKeys)
}
