//go:build unit

package queries_test

import (
	"context"
	"testing"

	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/infra/anatod"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/queries"
	"selfcare-backend/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUpstream struct {
	customer *anatod.Customer
	err      error
}

func (s *stubUpstream) GetCustomer(_ context.Context, _ string) (*anatod.Customer, error) {
	return s.customer, s.err
}

type stubUoW struct{}

func (stubUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, nil)
}

func (stubUoW) WithDB(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	return fn(ctx, nil)
}

type stubReservations struct {
	sum int64
}

func (s *stubReservations) SumReserved(_ context.Context, _ db.Querier, _ string) (int64, error) {
	return s.sum, nil
}

func (s *stubReservations) Create(context.Context, db.Querier, *credit.Reservation) error {
	return nil
}

func (s *stubReservations) GetByID(context.Context, db.Querier, uuid.UUID) (*credit.Reservation, error) {
	return nil, nil
}

func (s *stubReservations) GetForUpdate(context.Context, db.Querier, uuid.UUID) (*credit.Reservation, error) {
	return nil, nil
}

func (s *stubReservations) FindByOrderID(context.Context, db.Querier, uuid.UUID) (*credit.Reservation, error) {
	return nil, nil
}

func (s *stubReservations) Save(context.Context, db.Querier, *credit.Reservation) error {
	return nil
}

func TestCreditProfile(t *testing.T) {
	t.Run("derives available from limit minus active reservations", func(t *testing.T) {
		q := queries.NewCreditQueries(
			&stubUpstream{customer: &anatod.Customer{ID: "123456", OfficialLimitCents: 100_000_00}},
			stubUoW{},
			&stubReservations{sum: 35_000_00},
			"ARS",
		)

		view, err := q.Profile(context.Background(), "123456")
		require.NoError(t, err)

		want := &queries.CreditProfileView{
			ClientID:           "123456",
			OfficialLimitCents: 100_000_00,
			ReservedTotalCents: 35_000_00,
			AvailableCents:     65_000_00,
			Currency:           "ARS",
		}
		assert.Empty(t, cmp.Diff(want, view))
	})

	t.Run("available clamps at zero when over-reserved", func(t *testing.T) {
		q := queries.NewCreditQueries(
			&stubUpstream{customer: &anatod.Customer{ID: "123456", OfficialLimitCents: 10_000_00}},
			stubUoW{},
			&stubReservations{sum: 25_000_00},
			"ARS",
		)

		view, err := q.Profile(context.Background(), "123456")
		require.NoError(t, err)
		assert.Equal(t, int64(0), view.AvailableCents)
	})

	t.Run("negative upstream limit is floored at zero", func(t *testing.T) {
		q := queries.NewCreditQueries(
			&stubUpstream{customer: &anatod.Customer{ID: "123456", OfficialLimitCents: -5_00}},
			stubUoW{},
			&stubReservations{},
			"ARS",
		)

		view, err := q.Profile(context.Background(), "123456")
		require.NoError(t, err)
		assert.Equal(t, int64(0), view.OfficialLimitCents)
	})

	t.Run("upstream failure is never defaulted", func(t *testing.T) {
		q := queries.NewCreditQueries(
			&stubUpstream{err: &anatod.UpstreamError{StatusCode: 503, Body: "maintenance"}},
			stubUoW{},
			&stubReservations{},
			"ARS",
		)

		_, err := q.Profile(context.Background(), "123456")
		require.Error(t, err)
		assert.True(t, errs.Is(err, queries.ErrUpstreamUnavailable))
	})
}
