package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

const foldersCollection = "folders"

type firestoreFolderRepository struct {
	client *firestore.Client
}

func NewFirestoreFolderRepository(client *firestore.Client) repository.FolderRepository {
	return &firestoreFolderRepository{
		client: client,
	}
}

func (r *firestoreFolderRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(foldersCollection).Doc(id)
}

func (r *firestoreFolderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	folder.UpdatedAt = time.Now()
	_, err := r.doc(folder.ID).Set(ctx, folder)
	if err != nil {
		return errors.Upstream("Failed to create folder", err)
	}
	return nil
}

func (r *firestoreFolderRepository) GetByID(ctx context.Context, id string) (*entity.Folder, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Folder", err)
		}
		return nil, errors.Upstream("Failed to get folder", err)
	}

	var folder entity.Folder
	if err := doc.DataTo(&folder); err != nil {
		return nil, errors.Internal("Failed to parse folder", err)
	}
	return &folder, nil
}

func (r *firestoreFolderRepository) Update(ctx context.Context, folder *entity.Folder) error {
	folder.UpdatedAt = time.Now()
	_, err := r.doc(folder.ID).Set(ctx, folder)
	if err != nil {
		return errors.Upstream("Failed to update folder", err)
	}
	return nil
}

func (r *firestoreFolderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Folder", err)
		}
		return errors.Upstream("Failed to delete folder", err)
	}
	return nil
}

func (r *firestoreFolderRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	iter := r.client.Collection(foldersCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Upstream("Failed to iterate folders", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Upstream("Failed to delete folders", err)
		}
	}
	return nil
}

func (r *firestoreFolderRepository) List(ctx context.Context, ownerID, parentFolderID, search string, limit, offset int) ([]*entity.Folder, int64, error) {
	query := r.client.Collection(foldersCollection).
		Where("ownerId", "==", ownerID).
		Where("parentFolderId", "==", parentFolderID)

	if search != "" {
		query = query.
			Where("name", ">=", search).
			Where("name", "<=", search+"\uf8ff").
			OrderBy("name", firestore.Asc)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Upstream("Failed to count folders", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var folders []*entity.Folder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Upstream("Failed to iterate folders", err)
		}

		var folder entity.Folder
		if err := doc.DataTo(&folder); err != nil {
			logger.Error("Failed to parse folder %s: %v", doc.Ref.ID, err)
			continue
		}
		folders = append(folders, &folder)
	}

	return folders, total, nil
}

func (r *firestoreFolderRepository) Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.Folder, error) {
	q := r.client.Collection(foldersCollection).
		Where("ownerId", "==", ownerID).
		Where("name", ">=", query).
		Where("name", "<=", query+"\uf8ff").
		OrderBy("name", firestore.Asc).
		Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var folders []*entity.Folder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Upstream("Failed to search folders", err)
		}

		var folder entity.Folder
		if err := doc.DataTo(&folder); err != nil {
			logger.Error("Failed to parse folder %s: %v", doc.Ref.ID, err)
			continue
		}
		folders = append(folders, &folder)
	}

	return folders, nil
}

func (r *firestoreFolderRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	docs, err := r.client.Collection(foldersCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, errors.Upstream("Failed to count folders", err)
	}
	return int64(len(docs)), nil
}
