package repository

import (
	"context"

	"skydrive/internal/domain/entity"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByType(ctx context.Context, planType entity.PlanType) (*entity.Plan, error)
	List(ctx context.Context) ([]*entity.Plan, error)
}
