package usecase

import (
	"context"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

// QuotaUseCase accounts storage capacity per user. The admission check
// (CheckAvailable) runs before an upload is declared; the authoritative
// enforcement is Commit, which re-validates against the figures read
// inside the same atomic unit it writes in. The two are deliberately
// decoupled so no lock spans a potentially minutes-long transfer.
type QuotaUseCase struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
}

func NewQuotaUseCase(userRepo repository.UserRepository, planRepo repository.PlanRepository) *QuotaUseCase {
	return &QuotaUseCase{
		userRepo: userRepo,
		planRepo: planRepo,
	}
}

type QuotaInfo struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Available int64 `json:"available"`
}

func (uc *QuotaUseCase) Available(ctx context.Context, ownerID string) (*QuotaInfo, error) {
	user, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	plan, err := uc.planRepo.GetByID(ctx, user.PlanID)
	if err != nil {
		return nil, err
	}

	available := plan.StorageLimit - user.StorageUsed
	if available < 0 {
		available = 0
	}

	return &QuotaInfo{
		Used:      user.StorageUsed,
		Limit:     plan.StorageLimit,
		Available: available,
	}, nil
}

func (uc *QuotaUseCase) CheckAvailable(ctx context.Context, ownerID string, requested int64) error {
	info, err := uc.Available(ctx, ownerID)
	if err != nil {
		return err
	}

	if requested > info.Available {
		return errors.QuotaExceeded("Insufficient storage space. Please upgrade your plan or delete some files.")
	}
	return nil
}

// Commit charges bytes against the user inside the caller's atomic
// unit. The user and plan must have been read within that same unit so
// a concurrent committer's increment is always observed.
func (uc *QuotaUseCase) Commit(ctx context.Context, user *entity.User, plan *entity.Plan, bytes int64) error {
	if user.StorageUsed+bytes > plan.StorageLimit {
		return errors.QuotaExceeded("Storage limit reached while finalizing the upload")
	}

	user.StorageUsed += bytes
	return uc.userRepo.Update(ctx, user)
}

// Release gives bytes back on deletion. Clamped at zero: concurrent
// corrective operations could otherwise double-decrement, and a skewed
// counter must never fail the deletion that exposed it.
func (uc *QuotaUseCase) Release(ctx context.Context, user *entity.User, bytes int64) error {
	user.StorageUsed -= bytes
	if user.StorageUsed < 0 {
		logger.Warn("Storage accounting for user %s went below zero (released %d); clamping", user.ID, bytes)
		user.StorageUsed = 0
	}
	return uc.userRepo.Update(ctx, user)
}
