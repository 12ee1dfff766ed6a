package readstore

import (
	"context"
	"errors"

	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderReadStore struct {
	db db.Querier
}

func NewOrderReadStore(q db.Querier) *OrderReadStore {
	return &OrderReadStore{db: q}
}

func (s *OrderReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	const query = `
SELECT id, client_id, type, status, conexion_id, previous_plan_id, target_plan_id, ticket_id, idempotency_key, created_at, updated_at
FROM orders
WHERE id = $1`

	var view queries.OrderView
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.ClientID, &view.Type, &view.Status,
		&view.ConexionID, &view.PreviousPlanID, &view.TargetPlanID,
		&view.TicketID, &view.IdempotencyKey, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read order", err)
	}

	events, err := s.listEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Events = events
	return &view, nil
}

func (s *OrderReadStore) listEvents(ctx context.Context, orderID uuid.UUID) ([]queries.OrderEventView, error) {
	const query = `
SELECT id, event_type, payload, created_at
FROM order_events
WHERE order_id = $1
ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list order events", err)
	}
	defer rows.Close()

	var events []queries.OrderEventView
	for rows.Next() {
		var ev queries.OrderEventView
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan order event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate order events", err)
	}
	return events, nil
}
