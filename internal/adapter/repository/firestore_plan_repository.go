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

const plansCollection = "plans"

type firestorePlanRepository struct {
	client *firestore.Client
}

func NewFirestorePlanRepository(client *firestore.Client) repository.PlanRepository {
	return &firestorePlanRepository{
		client: client,
	}
}

func (r *firestorePlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	plan.UpdatedAt = time.Now()
	_, err := r.client.Collection(plansCollection).Doc(plan.ID).Set(ctx, plan)
	if err != nil {
		return errors.Upstream("Failed to create plan", err)
	}
	return nil
}

func (r *firestorePlanRepository) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	var doc *firestore.DocumentSnapshot
	var err error

	ref := r.client.Collection(plansCollection).Doc(id)
	if tx := txFromContext(ctx); tx != nil {
		doc, err = tx.Get(ref)
	} else {
		doc, err = ref.Get(ctx)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Plan", err)
		}
		return nil, errors.Upstream("Failed to get plan", err)
	}

	var plan entity.Plan
	if err := doc.DataTo(&plan); err != nil {
		return nil, errors.Internal("Failed to parse plan", err)
	}
	return &plan, nil
}

func (r *firestorePlanRepository) GetByType(ctx context.Context, planType entity.PlanType) (*entity.Plan, error) {
	iter := r.client.Collection(plansCollection).
		Where("type", "==", string(planType)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Plan", nil)
		}
		return nil, errors.Upstream("Failed to query plan", err)
	}

	var plan entity.Plan
	if err := doc.DataTo(&plan); err != nil {
		return nil, errors.Internal("Failed to parse plan", err)
	}
	return &plan, nil
}

func (r *firestorePlanRepository) List(ctx context.Context) ([]*entity.Plan, error) {
	iter := r.client.Collection(plansCollection).
		OrderBy("storageLimit", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var plans []*entity.Plan
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Upstream("Failed to iterate plans", err)
		}

		var plan entity.Plan
		if err := doc.DataTo(&plan); err != nil {
			logger.Error("Failed to parse plan %s: %v", doc.Ref.ID, err)
			continue
		}
		plans = append(plans, &plan)
	}

	return plans, nil
}
