package queries

import (
	"context"
	"errors"

	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/shared"
)

var ErrUpstreamUnavailable = errs.New("upstream unavailable")

// UpstreamCustomerReader is the slice of the billing/CRM adapter the ledger
// needs: just the official purchase limit snapshot.
type UpstreamCustomerReader interface {
	GetCustomer(ctx context.Context, clientID string) (*anatod.Customer, error)
}

type CreditQueries interface {
	// Profile recomputes the credit position. Pure read: no writes, safe to
	// call repeatedly and concurrently.
	Profile(ctx context.Context, clientID string) (*CreditProfileView, error)
}

type creditQueriesImpl struct {
	upstream     UpstreamCustomerReader
	uow          shared.UnitOfWork
	reservations shared.ReservationRepository
	currency     string
}

func NewCreditQueries(
	upstream UpstreamCustomerReader,
	uow shared.UnitOfWork,
	reservations shared.ReservationRepository,
	currency string,
) CreditQueries {
	return &creditQueriesImpl{
		upstream:     upstream,
		uow:          uow,
		reservations: reservations,
		currency:     currency,
	}
}

func (q *creditQueriesImpl) Profile(ctx context.Context, clientID string) (*CreditProfileView, error) {
	customer, err := q.upstream.GetCustomer(ctx, clientID)
	if err != nil {
		// Balance-affecting read: never default the limit on upstream failure.
		var upstreamErr *anatod.UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, errs.Mark(err, ErrUpstreamUnavailable)
		}
		return nil, err
	}

	var reservedTotal int64
	err = q.uow.WithDB(ctx, func(ctx context.Context, querier db.Querier) error {
		reservedTotal, err = q.reservations.SumReserved(ctx, querier, clientID)
		return err
	})
	if err != nil {
		return nil, err
	}

	profile := credit.NewProfile(
		credit.MustMoney(max64(customer.OfficialLimitCents, 0)),
		credit.MustMoney(reservedTotal),
	)

	return &CreditProfileView{
		ClientID:           clientID,
		OfficialLimitCents: profile.OfficialLimit.Cents(),
		ReservedTotalCents: profile.ReservedTotal.Cents(),
		AvailableCents:     profile.Available.Cents(),
		Currency:           q.currency,
	}, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
