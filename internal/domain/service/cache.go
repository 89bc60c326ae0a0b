package service

import (
	"context"
	"time"
)

// Cache is a best-effort key/value cache. Failures are logged by the
// implementation and never propagated into request handling.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
