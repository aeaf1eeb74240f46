package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/lib/pq"
)

// invalidTextRepresentation is raised for ids that do not parse as UUID
const invalidTextRepresentation = "22P02"

const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		customer_name  TEXT NOT NULL DEFAULT '',
		customer_email TEXT NOT NULL DEFAULT '',
		items          JSONB NOT NULL,
		total          DOUBLE PRECISION NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS payment_plans (
		id               UUID PRIMARY KEY,
		order_id         UUID NOT NULL REFERENCES orders(id),
		plan             JSONB NOT NULL,
		card_fingerprint TEXT NOT NULL,
		masked_card      TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		expires_at       TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS payment_plans_expires_at_idx ON payment_plans (expires_at);`

// PostgresStore provides database operations for orders and plans
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore initializes a new Postgres store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the tables if they do not exist
func (r *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SaveOrder inserts a new order
func (r *PostgresStore) SaveOrder(ctx context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	query := `
		INSERT INTO orders (id, customer_name, customer_email, items, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		order.ID, order.CustomerName, order.CustomerEmail, items, order.Total, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindOrder retrieves an order by id
func (r *PostgresStore) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	order := &models.Order{}
	var items []byte
	query := `
		SELECT id, customer_name, customer_email, items, total, created_at
		FROM orders
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&order.ID, &order.CustomerName, &order.CustomerEmail, &items, &order.Total, &order.CreatedAt)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return order, nil
}

// SavePlan inserts a new payment plan
func (r *PostgresStore) SavePlan(ctx context.Context, plan *models.StoredPlan) error {
	data, err := json.Marshal(plan.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode payment plan: %w", err)
	}
	query := `
		INSERT INTO payment_plans (id, order_id, plan, card_fingerprint, masked_card, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query,
		plan.ID, plan.OrderID, data, plan.CardFingerprint, plan.MaskedCard, plan.CreatedAt, plan.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create payment plan: %w", err)
	}
	return nil
}

// FindPlan retrieves a payment plan by id
func (r *PostgresStore) FindPlan(ctx context.Context, id string) (*models.StoredPlan, error) {
	plan := &models.StoredPlan{}
	var data []byte
	query := `
		SELECT id, order_id, plan, card_fingerprint, masked_card, created_at, expires_at
		FROM payment_plans
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&plan.ID, &plan.OrderID, &data, &plan.CardFingerprint, &plan.MaskedCard, &plan.CreatedAt, &plan.ExpiresAt)
	if notFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment plan: %w", err)
	}
	if err := json.Unmarshal(data, &plan.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode payment plan: %w", err)
	}
	return plan, nil
}

// DeleteExpiredPlans removes plans that expired at or before now
func (r *PostgresStore) DeleteExpiredPlans(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_plans WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired plans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted plans: %w", err)
	}
	return int(n), nil
}

func (r *PostgresStore) Close() error {
	return r.db.Close()
}

// notFound treats a malformed id like a missing row
func notFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}
