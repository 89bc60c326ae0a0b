package repository

import (
	"context"

	"skydrive/internal/domain/entity"
)

// FileFilter narrows List results. Zero values mean "no constraint",
// except InTrash which is always applied.
type FileFilter struct {
	FolderID string
	InTrash  bool
	FileType entity.FileType
	Search   string
	SortBy   string
	SortDesc bool
}

type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
	GetByID(ctx context.Context, id string) (*entity.File, error)
	Update(ctx context.Context, file *entity.File) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByOwner(ctx context.Context, ownerID string) error

	List(ctx context.Context, ownerID string, filter FileFilter, limit, offset int) ([]*entity.File, int64, error)
	ListByOwner(ctx context.Context, ownerID string, inTrash bool) ([]*entity.File, error)
	Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.File, error)

	// CountByStorageKey reports how many records reference storageKey,
	// not counting excludingIDs. The reference-counted deletion guard
	// calls this inside the same atomic unit as the physical delete.
	CountByStorageKey(ctx context.Context, storageKey string, excludingIDs []string) (int, error)
}
