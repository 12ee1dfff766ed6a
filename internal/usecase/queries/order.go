package queries

import (
	"context"

	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.New("order not found")

type OrderReadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
}

type OrderQueries interface {
	// GetByID returns the order with its full event trail.
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.GetByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}
