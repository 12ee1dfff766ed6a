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

type ReservationReadStore struct {
	db db.Querier
}

func NewReservationReadStore(q db.Querier) *ReservationReadStore {
	return &ReservationReadStore{db: q}
}

func (s *ReservationReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
SELECT id, client_id, order_id, amount_cents, status, created_at, updated_at
FROM credit_reservations
WHERE id = $1`

	var view queries.ReservationView
	err := s.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.ClientID, &view.OrderID, &view.AmountCents,
		&view.Status, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to read reservation", err)
	}
	return &view, nil
}

func (s *ReservationReadStore) ListByClient(ctx context.Context, clientID string) ([]*queries.ReservationView, error) {
	const query = `
SELECT id, client_id, order_id, amount_cents, status, created_at, updated_at
FROM credit_reservations
WHERE client_id = $1
ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list reservations", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		var view queries.ReservationView
		if err := rows.Scan(&view.ID, &view.ClientID, &view.OrderID, &view.AmountCents,
			&view.Status, &view.CreatedAt, &view.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan reservation row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate reservations", err)
	}
	return views, nil
}
