package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

type PlanUseCase struct {
	planRepo repository.PlanRepository
}

func NewPlanUseCase(planRepo repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{
		planRepo: planRepo,
	}
}

func (uc *PlanUseCase) List(ctx context.Context) ([]*entity.Plan, error) {
	return uc.planRepo.List(ctx)
}

func (uc *PlanUseCase) Get(ctx context.Context, id string) (*entity.Plan, error) {
	return uc.planRepo.GetByID(ctx, id)
}

// EnsureDefaults seeds the plan catalog on startup. Existing plans are
// left untouched.
func (uc *PlanUseCase) EnsureDefaults(ctx context.Context) error {
	defaults := []struct {
		planType     entity.PlanType
		name         string
		storageLimit int64
		priceMonthly int64
	}{
		{entity.PlanFree, "Free", 5 * 1024 * 1024 * 1024, 0},
		{entity.PlanPro, "Pro", 100 * 1024 * 1024 * 1024, 999},
		{entity.PlanEnterprise, "Enterprise", 1024 * 1024 * 1024 * 1024, 4999},
	}

	for _, def := range defaults {
		_, err := uc.planRepo.GetByType(ctx, def.planType)
		if err == nil {
			continue
		}
		if !errors.Is(err, "NOT_FOUND") {
			return err
		}

		now := time.Now()
		plan := &entity.Plan{
			ID:           uuid.New().String(),
			Type:         def.planType,
			Name:         def.name,
			StorageLimit: def.storageLimit,
			PriceMonthly: def.priceMonthly,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.planRepo.Create(ctx, plan); err != nil {
			return err
		}
		logger.Info("Seeded plan %s (%d bytes)", plan.Type, plan.StorageLimit)
	}

	return nil
}
