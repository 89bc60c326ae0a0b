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
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Upstream("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var doc *firestore.DocumentSnapshot
	var err error

	if tx := txFromContext(ctx); tx != nil {
		doc, err = tx.Get(r.doc(id))
	} else {
		doc, err = r.doc(id).Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Upstream("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*entity.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("firebaseUid", "==", uid).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Upstream("Failed to query user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	if tx := txFromContext(ctx); tx != nil {
		if err := tx.Set(r.doc(user.ID), user); err != nil {
			return errors.Upstream("Failed to update user", err)
		}
		return nil
	}

	_, err := r.doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Upstream("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Upstream("Failed to delete user", err)
	}
	return nil
}
