package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skydrive/internal/domain/entity"
	"skydrive/internal/domain/repository"
	"skydrive/internal/domain/service"
	"skydrive/pkg/errors"
	"skydrive/pkg/logger"
)

const userCacheTTL = 15 * time.Minute

// AuthUseCase resolves an authenticated identity to a domain user,
// provisioning a fresh FREE-plan account the first time an identity is
// seen. Resolution sits on every request, so resolved users are cached
// under "user:{firebaseUid}"; the write paths that change storage
// accounting invalidate that key.
type AuthUseCase struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	cache    service.Cache
}

func NewAuthUseCase(userRepo repository.UserRepository, planRepo repository.PlanRepository, cache service.Cache) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		planRepo: planRepo,
		cache:    cache,
	}
}

func (uc *AuthUseCase) SyncUser(ctx context.Context, firebaseUID, email, name string) (*entity.User, error) {
	cacheKey := "user:" + firebaseUID

	var cached entity.User
	if hit, err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	user, err := uc.userRepo.GetByFirebaseUID(ctx, firebaseUID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if user == nil || errors.Is(err, "NOT_FOUND") {
		freePlan, err := uc.planRepo.GetByType(ctx, entity.PlanFree)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		user = &entity.User{
			ID:          uuid.New().String(),
			FirebaseUID: firebaseUID,
			Email:       email,
			Name:        name,
			PlanID:      freePlan.ID,
			StorageUsed: 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logger.Info("Provisioned new user %s on plan %s", user.ID, freePlan.Type)
	}

	if err := uc.cache.Set(ctx, cacheKey, user, userCacheTTL); err != nil {
		logger.Warn("Failed to cache user %s: %v", user.ID, err)
	}
	return user, nil
}
