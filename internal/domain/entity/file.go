package entity

import (
	"strings"
	"time"
)

type UploadStrategy string

const (
	StrategySinglePart UploadStrategy = "SINGLE_PART"
	StrategyMultiPart  UploadStrategy = "MULTI_PART"
)

type UploadStatus string

// COMPLETED and FAILED are terminal; nothing transitions out of them.
const (
	UploadStatusInitiated UploadStatus = "INITIATED"
	UploadStatusCompleted UploadStatus = "COMPLETED"
	UploadStatusFailed    UploadStatus = "FAILED"
)

type FileAccess string

const (
	AccessPublic  FileAccess = "PUBLIC"
	AccessPrivate FileAccess = "PRIVATE"
)

type FileType string

const (
	FileTypeImage    FileType = "IMAGE"
	FileTypeVideo    FileType = "VIDEO"
	FileTypeAudio    FileType = "AUDIO"
	FileTypeDocument FileType = "DOCUMENT"
)

// File is the metadata record for one uploaded object. StorageKey is not
// unique across records: a copy produces a second record pointing at the
// same key, and deletion logic must treat that as the normal case.
type File struct {
	ID       string   `json:"id" firestore:"id"`
	Filename string   `json:"filename" firestore:"filename"`
	MimeType string   `json:"mime_type" firestore:"mimeType"`
	FileType FileType `json:"file_type" firestore:"fileType"`
	Size     int64    `json:"size" firestore:"size"`

	StorageKey string         `json:"storage_key" firestore:"storageKey"`
	Strategy   UploadStrategy `json:"strategy" firestore:"strategy"`
	UploadID   string         `json:"upload_id,omitempty" firestore:"uploadId"`
	Status     UploadStatus   `json:"status" firestore:"status"`

	OwnerID string `json:"owner_id" firestore:"ownerId"`
	// Empty means root, but only while IsInTrash is false; a trashed
	// file's placement lives in OriginalFolderID. Stored even when empty
	// so root-level listings can filter on it.
	FolderID string `json:"folder_id,omitempty" firestore:"folderId"`
	// OriginalFolderID holds the pre-trash placement; set only while trashed.
	OriginalFolderID string `json:"original_folder_id,omitempty" firestore:"originalFolderId"`

	IsInTrash bool       `json:"is_in_trash" firestore:"isInTrash"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`

	Access FileAccess `json:"access" firestore:"access"`

	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty" firestore:"uploadedAt,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at" firestore:"updatedAt"`
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,

	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true,

	"application/zip": true,

	"video/mp4":       true,
	"video/quicktime": true,
	"video/mkv":       true,

	"audio/mpeg": true,
	"audio/wav":  true,
}

func IsAllowedMimeType(mimeType string) bool {
	return allowedMimeTypes[mimeType]
}

func FileTypeFromMime(mimeType string) FileType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return FileTypeAudio
	default:
		return FileTypeDocument
	}
}
