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

const filesCollection = "files"

type firestoreFileRepository struct {
	client *firestore.Client
}

func NewFirestoreFileRepository(client *firestore.Client) repository.FileRepository {
	return &firestoreFileRepository{
		client: client,
	}
}

func (r *firestoreFileRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(filesCollection).Doc(id)
}

func (r *firestoreFileRepository) Create(ctx context.Context, file *entity.File) error {
	file.UpdatedAt = time.Now()

	if tx := txFromContext(ctx); tx != nil {
		if err := tx.Set(r.doc(file.ID), file); err != nil {
			return errors.Upstream("Failed to create file record", err)
		}
		return nil
	}

	_, err := r.doc(file.ID).Set(ctx, file)
	if err != nil {
		return errors.Upstream("Failed to create file record", err)
	}
	return nil
}

func (r *firestoreFileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	var doc *firestore.DocumentSnapshot
	var err error

	if tx := txFromContext(ctx); tx != nil {
		doc, err = tx.Get(r.doc(id))
	} else {
		doc, err = r.doc(id).Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("File", err)
		}
		return nil, errors.Upstream("Failed to get file record", err)
	}

	var file entity.File
	if err := doc.DataTo(&file); err != nil {
		return nil, errors.Internal("Failed to parse file record", err)
	}
	return &file, nil
}

func (r *firestoreFileRepository) Update(ctx context.Context, file *entity.File) error {
	file.UpdatedAt = time.Now()

	if tx := txFromContext(ctx); tx != nil {
		if err := tx.Set(r.doc(file.ID), file); err != nil {
			return errors.Upstream("Failed to update file record", err)
		}
		return nil
	}

	_, err := r.doc(file.ID).Set(ctx, file)
	if err != nil {
		return errors.Upstream("Failed to update file record", err)
	}
	return nil
}

func (r *firestoreFileRepository) Delete(ctx context.Context, id string) error {
	if tx := txFromContext(ctx); tx != nil {
		if err := tx.Delete(r.doc(id)); err != nil {
			return errors.Upstream("Failed to delete file record", err)
		}
		return nil
	}

	_, err := r.doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("File", err)
		}
		return errors.Upstream("Failed to delete file record", err)
	}
	return nil
}

func (r *firestoreFileRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if tx := txFromContext(ctx); tx != nil {
		for _, id := range ids {
			if err := tx.Delete(r.doc(id)); err != nil {
				return errors.Upstream("Failed to delete file records", err)
			}
		}
		return nil
	}

	for _, id := range ids {
		if _, err := r.doc(id).Delete(ctx); err != nil {
			return errors.Upstream("Failed to delete file records", err)
		}
	}
	return nil
}

func (r *firestoreFileRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	iter := r.client.Collection(filesCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Upstream("Failed to iterate file records", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Upstream("Failed to delete file records", err)
		}
	}
	return nil
}

func (r *firestoreFileRepository) List(ctx context.Context, ownerID string, filter repository.FileFilter, limit, offset int) ([]*entity.File, int64, error) {
	query := r.client.Collection(filesCollection).
		Where("ownerId", "==", ownerID).
		Where("isInTrash", "==", filter.InTrash)

	// Trash listings ignore folder placement; active listings always
	// filter on it, empty meaning root.
	if !filter.InTrash {
		query = query.Where("folderId", "==", filter.FolderID)
	}
	if filter.FileType != "" {
		query = query.Where("fileType", "==", string(filter.FileType))
	}

	if filter.Search != "" {
		query = query.
			Where("filename", ">=", filter.Search).
			Where("filename", "<=", filter.Search+"\uf8ff").
			OrderBy("filename", firestore.Asc)
	} else {
		sortBy := filter.SortBy
		switch sortBy {
		case "filename", "size", "createdAt":
		default:
			sortBy = "createdAt"
		}
		direction := firestore.Asc
		if filter.SortDesc {
			direction = firestore.Desc
		}
		query = query.OrderBy(sortBy, direction)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Upstream("Failed to count file records", err)
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

	var files []*entity.File
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Upstream("Failed to iterate file records", err)
		}

		var file entity.File
		if err := doc.DataTo(&file); err != nil {
			logger.Error("Failed to parse file record %s: %v", doc.Ref.ID, err)
			continue
		}
		files = append(files, &file)
	}

	return files, total, nil
}

func (r *firestoreFileRepository) ListByOwner(ctx context.Context, ownerID string, inTrash bool) ([]*entity.File, error) {
	query := r.client.Collection(filesCollection).
		Where("ownerId", "==", ownerID).
		Where("isInTrash", "==", inTrash)

	var iter *firestore.DocumentIterator
	if tx := txFromContext(ctx); tx != nil {
		iter = tx.Documents(query)
	} else {
		iter = query.Documents(ctx)
	}
	defer iter.Stop()

	var files []*entity.File
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Upstream("Failed to iterate file records", err)
		}

		var file entity.File
		if err := doc.DataTo(&file); err != nil {
			logger.Error("Failed to parse file record %s: %v", doc.Ref.ID, err)
			continue
		}
		files = append(files, &file)
	}

	return files, nil
}

func (r *firestoreFileRepository) Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.File, error) {
	q := r.client.Collection(filesCollection).
		Where("ownerId", "==", ownerID).
		Where("isInTrash", "==", false).
		Where("filename", ">=", query).
		Where("filename", "<=", query+"\uf8ff").
		OrderBy("filename", firestore.Asc).
		Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var files []*entity.File
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Upstream("Failed to search file records", err)
		}

		var file entity.File
		if err := doc.DataTo(&file); err != nil {
			logger.Error("Failed to parse file record %s: %v", doc.Ref.ID, err)
			continue
		}
		files = append(files, &file)
	}

	return files, nil
}

func (r *firestoreFileRepository) CountByStorageKey(ctx context.Context, storageKey string, excludingIDs []string) (int, error) {
	excluded := make(map[string]bool, len(excludingIDs))
	for _, id := range excludingIDs {
		excluded[id] = true
	}

	query := r.client.Collection(filesCollection).
		Where("storageKey", "==", storageKey)

	var iter *firestore.DocumentIterator
	if tx := txFromContext(ctx); tx != nil {
		iter = tx.Documents(query)
	} else {
		iter = query.Documents(ctx)
	}
	defer iter.Stop()

	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.Upstream("Failed to count storage key references", err)
		}
		if !excluded[doc.Ref.ID] {
			count++
		}
	}

	return count, nil
}
