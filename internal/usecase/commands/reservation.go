package commands

import (
	"context"
	"errors"
	"strings"

	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/queries"
	"selfcare-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInsufficientCredit      = errs.New("insufficient credit")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrReservationConsumed     = errs.New("reservation already consumed")
	ErrReservationReleased     = errs.New("reservation already released")
	ErrUpstreamUnavailable     = errs.New("upstream unavailable")
	ErrValidation              = errs.New("validation failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReserveParams struct {
	ClientID    string
	AmountCents int64
	OrderID     *uuid.UUID
}

type ReservationCommands interface {
	// Reserve places a hold against the customer's official limit. The
	// availability check and the insert run under the per-client lock, so
	// two concurrent reserves can never jointly over-commit credit.
	Reserve(ctx context.Context, params ReserveParams) (*queries.ReservationView, error)
	// Release cancels a hold. Idempotent for already-released holds,
	// rejected for consumed ones.
	Release(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
	// Consume turns a hold into a real commitment. Idempotent for already-
	// consumed holds, rejected for released ones.
	Consume(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	upstream queries.UpstreamCustomerReader
	clock    clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	upstream queries.UpstreamCustomerReader,
	clk clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		upstream: upstream,
		clock:    clk,
	}
}

func (c *reservationCommandsImpl) Reserve(ctx context.Context, params ReserveParams) (*queries.ReservationView, error) {
	if strings.TrimSpace(params.ClientID) == "" {
		return nil, errs.Mark(errs.New("client id is required"), ErrValidation)
	}
	amount, err := credit.NewMoney(params.AmountCents)
	if err != nil || amount.IsZero() {
		return nil, errs.Mark(errs.New("amount must be a positive number of cents"), ErrValidation)
	}

	// The upstream snapshot is taken before the transaction opens: the
	// reservation write path must never block on a remote call while
	// holding the client lock.
	customer, err := c.upstream.GetCustomer(ctx, params.ClientID)
	if err != nil {
		var upstreamErr *anatod.UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, errs.Mark(err, ErrUpstreamUnavailable)
		}
		return nil, err
	}
	officialLimit := customer.OfficialLimitCents
	if officialLimit < 0 {
		officialLimit = 0
	}

	var reservation *credit.Reservation
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockClient(ctx, params.ClientID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		reservedTotal, err := tx.Reservations().SumReserved(ctx, tx.DB(), params.ClientID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		profile := credit.NewProfile(credit.MustMoney(officialLimit), credit.MustMoney(reservedTotal))
		if !profile.CanReserve(amount) {
			return ErrInsufficientCredit
		}

		reservation, err = credit.NewReservation(params.ClientID, amount, params.OrderID, c.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}

		if err := tx.Reservations().Create(ctx, tx.DB(), reservation); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservationToView(reservation), nil
}

func (c *reservationCommandsImpl) Release(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, func(res *credit.Reservation) error {
		if err := res.Release(c.clock.Now()); err != nil {
			if errs.Is(err, credit.ErrAlreadyConsumed) {
				return ErrReservationConsumed
			}
			return errs.Mark(err, ErrValidation)
		}
		return nil
	})
}

func (c *reservationCommandsImpl) Consume(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return c.transition(ctx, id, func(res *credit.Reservation) error {
		if err := res.Consume(c.clock.Now()); err != nil {
			if errs.Is(err, credit.ErrAlreadyReleased) {
				return ErrReservationReleased
			}
			return errs.Mark(err, ErrValidation)
		}
		return nil
	})
}

// transition applies a state change under the same per-client lock that
// Reserve takes, so releases, consumes and new reserves for one customer all
// serialize. Locks are always acquired client-first, row-second.
func (c *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(res *credit.Reservation) error,
) (*queries.ReservationView, error) {
	var reservation *credit.Reservation
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		peek, err := tx.Reservations().GetByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.LockClient(ctx, peek.ClientID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		reservation, err = tx.Reservations().GetForUpdate(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		before := reservation.Status()
		if err := apply(reservation); err != nil {
			return err
		}
		if reservation.Status() == before {
			// Idempotent replay; nothing to persist.
			return nil
		}

		if err := tx.Reservations().Save(ctx, tx.DB(), reservation); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservationToView(reservation), nil
}

func reservationToView(res *credit.Reservation) *queries.ReservationView {
	return &queries.ReservationView{
		ID:          res.ID(),
		ClientID:    res.ClientID(),
		OrderID:     res.OrderID(),
		AmountCents: res.Amount().Cents(),
		Status:      res.Status().String(),
		CreatedAt:   res.CreatedAt(),
		UpdatedAt:   res.UpdatedAt(),
	}
}
