package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"telecore/internal/models/db_models"
)

const (
	planKeyPrefix  = "plan:"
	allPlansKey    = "plans:all"
	defaultPlanTTL = 10 * time.Minute
)

// CachedPlanRepository is a read-through Redis cache in front of the plan
// catalog. Cache failures are logged and fall through to the database.
type CachedPlanRepository struct {
	repo   IPlanRepository
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedPlanRepository(repo IPlanRepository, client redis.UniversalClient, ttl time.Duration, log *zap.Logger) IPlanRepository {
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}
	return &CachedPlanRepository{
		repo:   repo,
		client: client,
		ttl:    ttl,
		log:    log.Named("plan_cache"),
	}
}

func (r *CachedPlanRepository) GetPlanInfoById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	key := planKeyPrefix + planID.String()

	var cached db_models.Plan
	hit, err := r.get(ctx, key, &cached)
	if err != nil {
		r.log.Warn("Error getting plan from cache", zap.Error(err), zap.String("planID", planID.String()))
	}
	if hit {
		return &cached, nil
	}

	plan, err := r.repo.GetPlanInfoById(ctx, planID)
	if err != nil || plan == nil {
		return plan, err
	}

	if err := r.set(ctx, key, plan); err != nil {
		r.log.Warn("Failed to cache plan", zap.Error(err), zap.String("planID", planID.String()))
	}
	return plan, nil
}

func (r *CachedPlanRepository) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {
	var cached []db_models.Plan
	hit, err := r.get(ctx, allPlansKey, &cached)
	if err != nil {
		r.log.Warn("Error getting plan list from cache", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	plans, err := r.repo.GetAllPlans(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.set(ctx, allPlansKey, plans); err != nil {
		r.log.Warn("Failed to cache plan list", zap.Error(err))
	}
	return plans, nil
}

func (r *CachedPlanRepository) GetPlansByType(ctx context.Context, planType db_models.PlanType) ([]db_models.Plan, error) {
	return r.repo.GetPlansByType(ctx, planType)
}

func (r *CachedPlanRepository) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (r *CachedPlanRepository) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}
