package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	orderKeyPrefix = "order:"
	planKeyPrefix  = "plan:"
)

// RedisStore keeps orders and plans as short-lived session data in Redis.
// Keys expire on their own, so expired plans never need purging.
type RedisStore struct {
	client   *redis.Client
	orderTTL time.Duration
}

// NewRedisStore creates a store on top of a Redis client
func NewRedisStore(client *redis.Client, orderTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, orderTTL: orderTTL}
}

func (r *RedisStore) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.set(ctx, orderKeyPrefix+order.ID, order, r.orderTTL)
}

func (r *RedisStore) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	if err := r.get(ctx, orderKeyPrefix+id, order); err != nil {
		return nil, err
	}
	return order, nil
}

// SavePlan stores the plan for its own lifetime, measured from CreatedAt
// so the key TTL follows the clock that stamped the plan.
func (r *RedisStore) SavePlan(ctx context.Context, plan *models.StoredPlan) error {
	ttl := plan.ExpiresAt.Sub(plan.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: plan %s", ErrPlanExpired, plan.ID)
	}
	return r.set(ctx, planKeyPrefix+plan.ID, plan, ttl)
}

func (r *RedisStore) FindPlan(ctx context.Context, id string) (*models.StoredPlan, error) {
	plan := &models.StoredPlan{}
	if err := r.get(ctx, planKeyPrefix+id, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *RedisStore) DeleteExpiredPlans(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) get(ctx context.Context, key string, dest any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
