package repository

import (
	"context"
)

// Transactor runs fn as one all-or-nothing unit against the metadata
// store. Repository calls made with the context passed to fn join the
// unit; every read inside sees a consistent snapshot and every write
// takes effect only if fn returns nil.
//
// The metadata store may require all reads of a unit to happen before
// its first write; callers order their operations accordingly.
type Transactor interface {
	RunAtomic(ctx context.Context, fn func(txCtx context.Context) error) error
}
