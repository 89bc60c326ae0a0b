package repository

import (
	"context"
	stderrors "errors"

	"cloud.google.com/go/firestore"

	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
)

type txContextKey struct{}

// txFromContext returns the transaction of the surrounding atomic unit,
// or nil when the call runs standalone.
func txFromContext(ctx context.Context) *firestore.Transaction {
	tx, _ := ctx.Value(txContextKey{}).(*firestore.Transaction)
	return tx
}

type firestoreTransactor struct {
	client *firestore.Client
}

func NewFirestoreTransactor(client *firestore.Client) repository.Transactor {
	return &firestoreTransactor{
		client: client,
	}
}

// RunAtomic executes fn inside a Firestore transaction. Repository calls
// made with the context handed to fn pick the transaction up and join
// the unit. Firestore requires all reads of a transaction to happen
// before its first write; callers are ordered accordingly.
func (t *firestoreTransactor) RunAtomic(ctx context.Context, fn func(txCtx context.Context) error) error {
	err := t.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return err
		}
		return errors.Upstream("Metadata transaction failed", err)
	}
	return nil
}
