package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
)

// In-memory doubles for the metadata store, object store gateway and
// cache. GetByID returns copies so mutations only stick after Update,
// matching how a real store behaves.

type memFileRepo struct {
	mu    sync.Mutex
	files map[string]*entity.File
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]*entity.File)}
}

func (r *memFileRepo) Create(ctx context.Context, file *entity.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id string) (*entity.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, ok := r.files[id]
	if !ok {
		return nil, errors.NotFound("File", nil)
	}
	clone := *file
	return &clone, nil
}

func (r *memFileRepo) Update(ctx context.Context, file *entity.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[file.ID]; !ok {
		return errors.NotFound("File", nil)
	}
	clone := *file
	r.files[file.ID] = &clone
	return nil
}

func (r *memFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return errors.NotFound("File", nil)
	}
	delete(r.files, id)
	return nil
}

func (r *memFileRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.files, id)
	}
	return nil
}

func (r *memFileRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, file := range r.files {
		if file.OwnerID == ownerID {
			delete(r.files, id)
		}
	}
	return nil
}

func (r *memFileRepo) List(ctx context.Context, ownerID string, filter repository.FileFilter, limit, offset int) ([]*entity.File, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.File
	for _, file := range r.files {
		if file.OwnerID != ownerID || file.IsInTrash != filter.InTrash {
			continue
		}
		if !filter.InTrash && file.FolderID != filter.FolderID {
			continue
		}
		if filter.FileType != "" && file.FileType != filter.FileType {
			continue
		}
		if filter.Search != "" && !strings.HasPrefix(file.Filename, filter.Search) {
			continue
		}
		clone := *file
		matched = append(matched, &clone)
	}

	total := int64(len(matched))
	if offset > 0 && offset < len(matched) {
		matched = matched[offset:]
	} else if offset >= len(matched) {
		matched = nil
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *memFileRepo) ListByOwner(ctx context.Context, ownerID string, inTrash bool) ([]*entity.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.File
	for _, file := range r.files {
		if file.OwnerID == ownerID && file.IsInTrash == inTrash {
			clone := *file
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *memFileRepo) Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.File, error) {
	files, _, err := r.List(ctx, ownerID, repository.FileFilter{Search: query}, limit, 0)
	return files, err
}

func (r *memFileRepo) CountByStorageKey(ctx context.Context, storageKey string, excludingIDs []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	excluded := make(map[string]bool, len(excludingIDs))
	for _, id := range excludingIDs {
		excluded[id] = true
	}

	count := 0
	for _, file := range r.files {
		if file.StorageKey == storageKey && !excluded[file.ID] {
			count++
		}
	}
	return count, nil
}

type memFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*entity.Folder
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: make(map[string]*entity.Folder)}
}

func (r *memFolderRepo) Create(ctx context.Context, folder *entity.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *folder
	r.folders[folder.ID] = &clone
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*entity.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok {
		return nil, errors.NotFound("Folder", nil)
	}
	clone := *folder
	return &clone, nil
}

func (r *memFolderRepo) Update(ctx context.Context, folder *entity.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return errors.NotFound("Folder", nil)
	}
	clone := *folder
	r.folders[folder.ID] = &clone
	return nil
}

func (r *memFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.folders, id)
	return nil
}

func (r *memFolderRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, folder := range r.folders {
		if folder.OwnerID == ownerID {
			delete(r.folders, id)
		}
	}
	return nil
}

func (r *memFolderRepo) List(ctx context.Context, ownerID, parentFolderID, search string, limit, offset int) ([]*entity.Folder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Folder
	for _, folder := range r.folders {
		if folder.OwnerID != ownerID || folder.ParentFolderID != parentFolderID {
			continue
		}
		if search != "" && !strings.HasPrefix(folder.Name, search) {
			continue
		}
		clone := *folder
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *memFolderRepo) Search(ctx context.Context, ownerID, query string, limit int) ([]*entity.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Folder
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID && strings.HasPrefix(folder.Name, query) {
			clone := *folder
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *memFolderRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.FirebaseUID == uid {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[string]*entity.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[string]*entity.Plan)}
}

func (r *memPlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

func (r *memPlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, errors.NotFound("Plan", nil)
	}
	clone := *plan
	return &clone, nil
}

func (r *memPlanRepo) GetByType(ctx context.Context, planType entity.PlanType) (*entity.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, plan := range r.plans {
		if plan.Type == planType {
			clone := *plan
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Plan", nil)
}

func (r *memPlanRepo) List(ctx context.Context) ([]*entity.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var plans []*entity.Plan
	for _, plan := range r.plans {
		clone := *plan
		plans = append(plans, &clone)
	}
	return plans, nil
}

type stubStorage struct {
	mu sync.Mutex

	failPresignPut        bool
	failCreateMultipart   bool
	failCompleteMultipart bool

	presignPutKeys []string
	presignGetKeys []string
	multipartOpens []string
	presignedParts []int
	completedParts []service.CompletedPart
	abortedUploads []string
	deletedKeys    []string
	nextUploadID   string
}

func newStubStorage() *stubStorage {
	return &stubStorage{nextUploadID: "upload-1"}
}

func (s *stubStorage) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPresignPut {
		return "", errors.Upstream("Failed to presign upload URL", nil)
	}
	s.presignPutKeys = append(s.presignPutKeys, key)
	return "https://store.test/put/" + key, nil
}

func (s *stubStorage) PresignGet(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presignGetKeys = append(s.presignGetKeys, key)
	return "https://store.test/get/" + key, nil
}

func (s *stubStorage) CreateMultipart(ctx context.Context, key, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateMultipart {
		return "", errors.Upstream("Failed to open multipart upload", nil)
	}
	s.multipartOpens = append(s.multipartOpens, key)
	return s.nextUploadID, nil
}

func (s *stubStorage) PresignPart(ctx context.Context, key, uploadID string, partNumber int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presignedParts = append(s.presignedParts, partNumber)
	return fmt.Sprintf("https://store.test/part/%s/%d", key, partNumber), nil
}

func (s *stubStorage) CompleteMultipart(ctx context.Context, key, uploadID string, parts []service.CompletedPart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCompleteMultipart {
		return errors.Upstream("Failed to complete multipart upload", nil)
	}
	s.completedParts = append(s.completedParts, parts...)
	return nil
}

func (s *stubStorage) AbortMultipart(ctx context.Context, key, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortedUploads = append(s.abortedUploads, uploadID)
	return nil
}

func (s *stubStorage) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

// passthroughTransactor runs the closure directly; the in-memory repos
// apply writes immediately, which is close enough for usecase tests.
type passthroughTransactor struct{}

func (passthroughTransactor) RunAtomic(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = nil
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}

// fixture wires a full usecase stack around the in-memory doubles with
// one user on a plan of the given storage limit.
type fixture struct {
	fileRepo   *memFileRepo
	folderRepo *memFolderRepo
	userRepo   *memUserRepo
	planRepo   *memPlanRepo
	storage    *stubStorage
	cache      *stubCache

	quota   *QuotaUseCase
	upload  *UploadUseCase
	trash   *TrashUseCase
	store   *StorageUseCase
	file    *FileUseCase
	folders *FolderUseCase
	users   *UserUseCase

	user *entity.User
	plan *entity.Plan
}

func newFixture(storageLimit int64) *fixture {
	f := &fixture{
		fileRepo:   newMemFileRepo(),
		folderRepo: newMemFolderRepo(),
		userRepo:   newMemUserRepo(),
		planRepo:   newMemPlanRepo(),
		storage:    newStubStorage(),
		cache:      newStubCache(),
	}

	f.plan = &entity.Plan{
		ID:           "plan-free",
		Type:         entity.PlanFree,
		Name:         "Free",
		StorageLimit: storageLimit,
	}
	f.planRepo.Create(context.Background(), f.plan)

	f.user = &entity.User{
		ID:          "user-1",
		FirebaseUID: "fb-1",
		Email:       "owner@example.com",
		PlanID:      f.plan.ID,
	}
	f.userRepo.Create(context.Background(), f.user)

	tx := passthroughTransactor{}
	f.quota = NewQuotaUseCase(f.userRepo, f.planRepo)
	f.upload = NewUploadUseCase(f.fileRepo, f.folderRepo, f.userRepo, f.planRepo, f.storage, tx, f.quota, f.cache)
	f.trash = NewTrashUseCase(f.fileRepo)
	f.store = NewStorageUseCase(f.fileRepo, f.userRepo, f.storage, tx, f.quota, f.cache)
	f.file = NewFileUseCase(f.fileRepo, f.folderRepo, f.userRepo, f.planRepo, f.storage, tx, f.quota, f.cache)
	f.folders = NewFolderUseCase(f.folderRepo, f.fileRepo)
	f.users = NewUserUseCase(f.userRepo, f.planRepo, f.fileRepo, f.folderRepo, f.store, f.quota, f.cache)

	return f
}

func (f *fixture) storageUsed() int64 {
	user, _ := f.userRepo.GetByID(context.Background(), f.user.ID)
	return user.StorageUsed
}

// declareAndComplete pushes an upload through its whole lifecycle and
// returns the completed file. Sizes at or above the multipart
// threshold go multipart, so completion supplies a stitched part list
// for them.
func (f *fixture) declareAndComplete(size int64, filename string) (*entity.File, error) {
	result, err := f.upload.Declare(context.Background(), f.user.ID, DeclareUploadInput{
		Filename: filename,
		MimeType: "application/pdf",
		Size:     size,
	})
	if err != nil {
		return nil, err
	}

	var parts []service.CompletedPart
	if result.Strategy == entity.StrategyMultiPart {
		parts = []service.CompletedPart{{PartNumber: 1, ETag: "etag-" + result.FileID}}
	}
	return f.upload.Complete(context.Background(), f.user.ID, result.FileID, parts)
}
