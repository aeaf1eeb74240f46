package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/deferred-payment/internal/models"
)

var (
	// ErrNotFound is returned when an order or plan does not exist
	ErrNotFound = errors.New("not found")
	// ErrPlanExpired is returned when a plan is saved with no lifetime left
	ErrPlanExpired = errors.New("plan expires before it is created")
)

// Store persists orders and the payment plans computed for them
type Store interface {
	SaveOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id string) (*models.Order, error)
	SavePlan(ctx context.Context, plan *models.StoredPlan) error
	FindPlan(ctx context.Context, id string) (*models.StoredPlan, error)
	// DeleteExpiredPlans removes plans whose expiry is not after now
	DeleteExpiredPlans(ctx context.Context, now time.Time) (int, error)
	Close() error
}
