package queries

import (
	"context"

	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.New("reservation not found")

type ReservationReadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByClient(ctx context.Context, clientID string) ([]*ReservationView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByClient(ctx context.Context, clientID string) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.GetByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByClient(ctx context.Context, clientID string) ([]*ReservationView, error) {
	return q.readStore.ListByClient(ctx, clientID)
}
