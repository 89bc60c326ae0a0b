package repository

import (
	"context"

	"skydrive/internal/domain/entity"
)

type FolderRepository interface {
	Create(ctx context.Context, folder *entity.Folder) error
	GetByID(ctx context.Context, id string) (*entity.Folder, error)
	Update(ctx context.Context, folder *entity.Folder) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error

	List(ctx context.Context, ownerID, parentFolderID, search string, limit, offset int) ([]*entity.Folder, int64, error)
	Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.Folder, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
