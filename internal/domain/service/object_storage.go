package service

import (
	"context"
)

// CompletedPart is one entry of the client-supplied part list handed to
// CompleteMultipart. The object store verifies part integrity against
// the ETags at completion time.
type CompletedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"eTag"`
}

// ObjectStorage issues time-limited, scoped credentials against the
// external blob store and drives the multipart transfer lifecycle. It
// keeps no state of its own. Implementations bound every call with a
// timeout; "object does not exist" on delete is not an error.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)

	CreateMultipart(ctx context.Context, key, contentType string) (uploadID string, err error)
	PresignPart(ctx context.Context, key, uploadID string, partNumber int) (string, error)
	CompleteMultipart(ctx context.Context, key, uploadID string, parts []CompletedPart) error
	AbortMultipart(ctx context.Context, key, uploadID string) error

	DeleteObject(ctx context.Context, key string) error
}
