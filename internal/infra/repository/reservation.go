package repository

import (
	"context"
	"errors"
	"time"

	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Create(ctx context.Context, q db.Querier, res *credit.Reservation) error {
	const query = `
INSERT INTO credit_reservations (id, client_id, order_id, amount_cents, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := q.Exec(ctx, query,
		res.ID(), res.ClientID(), res.OrderID(), res.Amount().Cents(),
		res.Status().String(), res.CreatedAt(), res.UpdatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "reservation already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to create reservation", err)
	}
	return nil
}

// GetForUpdate locks the reservation row for the rest of the transaction so
// concurrent release/consume calls serialize.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error) {
	const query = `
SELECT id, client_id, order_id, amount_cents, status, created_at, updated_at
FROM credit_reservations
WHERE id = $1
FOR UPDATE`

	return r.scanReservation(q.QueryRow(ctx, query, id))
}

func (r *ReservationRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*credit.Reservation, error) {
	const query = `
SELECT id, client_id, order_id, amount_cents, status, created_at, updated_at
FROM credit_reservations
WHERE id = $1`

	return r.scanReservation(q.QueryRow(ctx, query, id))
}

// FindByOrderID returns the reservation backing an order regardless of its
// status, or nil when the order has none. The row is locked so the combined
// order/reservation terminal-state invariant can be checked and enforced in
// one transaction.
func (r *ReservationRepository) FindByOrderID(ctx context.Context, q db.Querier, orderID uuid.UUID) (*credit.Reservation, error) {
	const query = `
SELECT id, client_id, order_id, amount_cents, status, created_at, updated_at
FROM credit_reservations
WHERE order_id = $1
FOR UPDATE`

	res, err := r.scanReservation(q.QueryRow(ctx, query, orderID))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// SumReserved computes the customer's reserved total. Always computed, never
// stored denormalized. CONSUMED holds still count: the committed amount stays
// unavailable until the upstream limit catches up with the purchase.
func (r *ReservationRepository) SumReserved(ctx context.Context, q db.Querier, clientID string) (int64, error) {
	const query = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM credit_reservations
WHERE client_id = $1 AND status IN ('ACTIVE', 'CONSUMED')`

	var total int64
	if err := q.QueryRow(ctx, query, clientID).Scan(&total); err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to sum reserved amounts", err)
	}
	return total, nil
}

// Save persists status/order binding changes. Amounts are immutable and are
// deliberately not part of the UPDATE.
func (r *ReservationRepository) Save(ctx context.Context, q db.Querier, res *credit.Reservation) error {
	const query = `
UPDATE credit_reservations
SET status = $2, order_id = $3, updated_at = $4
WHERE id = $1`

	tag, err := q.Exec(ctx, query, res.ID(), res.Status().String(), res.OrderID(), res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}

func (r *ReservationRepository) scanReservation(row pgx.Row) (*credit.Reservation, error) {
	var (
		id                   uuid.UUID
		clientID             string
		orderID              *uuid.UUID
		amount               int64
		status               string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &clientID, &orderID, &amount, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan reservation", err)
	}

	money, err := credit.NewMoney(amount)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "stored reservation amount invalid", err)
	}
	return credit.ReconstructReservation(id, clientID, orderID, money, credit.Status(status), createdAt, updatedAt), nil
}
