package repository

import (
	"context"
	"errors"
	"time"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

const orderColumns = `id, client_id, type, status, conexion_id, previous_plan_id, target_plan_id, ticket_id, idempotency_key, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, q db.Querier, o *order.Order) error {
	const query = `
INSERT INTO orders (id, client_id, type, status, conexion_id, previous_plan_id, target_plan_id, ticket_id, idempotency_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	pc := o.PlanChange()
	_, err := q.Exec(ctx, query,
		o.ID(), o.ClientID(), o.Type(), o.Status().String(),
		pc.ConexionID, pc.PreviousPlanID, pc.TargetPlanID,
		o.TicketID(), o.IdempotencyKey(), o.CreatedAt(), o.UpdatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "order already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create order", err)
	}
	return nil
}

// FindByIdempotencyKey returns (nil, nil) when no order holds the key, so the
// caller can distinguish replay from first submission.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, q db.Querier, clientID, key string) (*order.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE client_id = $1 AND idempotency_key = $2`

	o, err := r.scanOrder(q.QueryRow(ctx, query, clientID, key))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1`

	return r.scanOrder(q.QueryRow(ctx, query, id))
}

// GetForUpdate locks the order row so a user-initiated advance and the
// reconciliation job cannot interleave on the same order.
func (r *OrderRepository) GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*order.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
FOR UPDATE`

	return r.scanOrder(q.QueryRow(ctx, query, id))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, q db.Querier, o *order.Order) error {
	const query = `
UPDATE orders
SET status = $2, updated_at = $3
WHERE id = $1`

	tag, err := q.Exec(ctx, query, o.ID(), o.Status().String(), o.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "order not found")
	}
	return nil
}

// AppendEvent inserts into the append-only audit trail. There is no update or
// delete path on purpose.
func (r *OrderRepository) AppendEvent(ctx context.Context, q db.Querier, e *order.Event) error {
	const query = `
INSERT INTO order_events (id, order_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := q.Exec(ctx, query, e.ID(), e.OrderID(), string(e.Type()), []byte(e.Payload()), e.CreatedAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, "order not found for event", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to append order event", err)
	}
	return nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		id                   uuid.UUID
		clientID, orderType  string
		status               string
		conexionID           *string
		previousPlanID       *string
		targetPlanID         *string
		ticketID             *string
		idempotencyKey       *string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &clientID, &orderType, &status,
		&conexionID, &previousPlanID, &targetPlanID, &ticketID, &idempotencyKey,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan order", err)
	}

	return order.ReconstructOrder(
		id, clientID, orderType, order.Status(status),
		order.PlanChange{ConexionID: conexionID, PreviousPlanID: previousPlanID, TargetPlanID: targetPlanID},
		ticketID, idempotencyKey, createdAt, updatedAt,
	), nil
}
