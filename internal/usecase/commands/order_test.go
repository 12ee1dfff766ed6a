//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"selfcare-backend/internal/domain/credit"
	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T) (*memStore, commands.OrderCommands) {
	t.Helper()
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return store, commands.NewOrderCommands(&fakeUoW{store: store}, clk)
}

func strPtr(s string) *string { return &s }

func TestCreateOrder_DefaultsToPendiente(t *testing.T) {
	store, cmd := newOrderFixture(t)

	result, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID: testClientID,
		Type:     "CAMBIO_PLAN",
		ConexionID: strPtr("conn-9"),
	})
	require.NoError(t, err)
	require.False(t, result.IsReplayed)

	assert.Equal(t, order.StatusPendiente, result.Order.Status())

	events := store.eventsFor(result.Order.ID())
	require.Len(t, events, 1)
	assert.Equal(t, order.EventCreated, events[0].eventType)
}

func TestCreateOrder_RejectsTerminalInitialStatus(t *testing.T) {
	_, cmd := newOrderFixture(t)

	for _, initial := range []order.Status{order.StatusAplicado, order.StatusFallido} {
		_, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
			ClientID:      testClientID,
			Type:          "CAMBIO_PLAN",
			InitialStatus: initial,
		})
		require.True(t, errs.Is(err, commands.ErrValidation), "initial status %s", initial)
	}
}

func TestCreateOrder_IdempotencyReplay(t *testing.T) {
	store, cmd := newOrderFixture(t)
	params := commands.CreateOrderParams{
		ClientID:       testClientID,
		Type:           "CAMBIO_PLAN",
		IdempotencyKey: strPtr("req-abc-1"),
	}

	first, err := cmd.CreateOrder(context.Background(), params)
	require.NoError(t, err)
	second, err := cmd.CreateOrder(context.Background(), params)
	require.NoError(t, err)

	assert.False(t, first.IsReplayed)
	assert.True(t, second.IsReplayed)
	assert.Equal(t, first.Order.ID(), second.Order.ID())

	// Replays write nothing: one order, one CREATED event.
	assert.Len(t, store.orders, 1)
	assert.Len(t, store.eventsFor(first.Order.ID()), 1)
}

func TestCreateOrder_SameKeyDifferentClient(t *testing.T) {
	store, cmd := newOrderFixture(t)
	key := strPtr("req-abc-1")

	first, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID: testClientID, Type: "CAMBIO_PLAN", IdempotencyKey: key,
	})
	require.NoError(t, err)
	second, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID: "999999", Type: "CAMBIO_PLAN", IdempotencyKey: key,
	})
	require.NoError(t, err)

	// Keys are scoped per client, so both creates are real.
	assert.False(t, second.IsReplayed)
	assert.NotEqual(t, first.Order.ID(), second.Order.ID())
	assert.Len(t, store.orders, 2)
}

func TestCreateOrder_BindsActiveReservation(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res := seedActiveReservation(t, store, 30_000)

	result, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID:      testClientID,
		Type:          "CAMBIO_PLAN",
		ReservationID: resIDPtr(res.ID()),
	})
	require.NoError(t, err)

	row, ok := store.reservation(res.ID())
	require.True(t, ok)
	require.NotNil(t, row.orderID)
	assert.Equal(t, result.Order.ID(), *row.orderID)
	assert.Equal(t, credit.StatusActive, row.status)
}

func TestCreateOrder_BindRejectsForeignReservation(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res, err := credit.NewReservation("999999", credit.MustMoney(30_000), nil, time.Now().UTC())
	require.NoError(t, err)
	store.seedReservation(res)

	_, err = cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID:      testClientID,
		Type:          "CAMBIO_PLAN",
		ReservationID: resIDPtr(res.ID()),
	})
	require.True(t, errs.Is(err, commands.ErrValidation))

	// Failed binding rolls the whole creation back.
	assert.Empty(t, store.orders)
	assert.Empty(t, store.events)
}

func TestCreateOrder_BindRejectsSettledReservation(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res := seedActiveReservation(t, store, 30_000)
	require.NoError(t, res.Release(time.Now().UTC()))
	store.seedReservation(res)

	_, err := cmd.CreateOrder(context.Background(), commands.CreateOrderParams{
		ClientID:      testClientID,
		Type:          "CAMBIO_PLAN",
		ReservationID: resIDPtr(res.ID()),
	})
	require.True(t, errs.Is(err, commands.ErrReservationStateBroken))
	assert.Empty(t, store.orders)
}

func TestAdvanceStatus_RecordsEvent(t *testing.T) {
	store, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "CAMBIO_PLAN"})

	advanced, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID:      created.ID(),
		NewStatus:    order.StatusEnProceso,
		EventPayload: json.RawMessage(`{"operator":"cron"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusEnProceso, advanced.Status())

	events := store.eventsFor(created.ID())
	require.Len(t, events, 2)
	assert.Equal(t, order.EventStatusChanged, events[1].eventType)
	assert.JSONEq(t, `{"operator":"cron"}`, string(events[1].payload))
}

func TestAdvanceStatus_AplicadoConsumesReservation(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res := seedActiveReservation(t, store, 30_000)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{
		ClientID: testClientID, Type: "CAMBIO_PLAN", ReservationID: resIDPtr(res.ID()),
	})
	mustAdvance(t, cmd, created.ID(), order.StatusEnProceso)

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.StatusAplicado,
	})
	require.NoError(t, err)

	row, _ := store.reservation(res.ID())
	assert.Equal(t, credit.StatusConsumed, row.status)

	events := store.eventsFor(created.ID())
	assert.Equal(t, order.EventApplied, events[len(events)-1].eventType)
}

func TestAdvanceStatus_FallidoReleasesReservation(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res := seedActiveReservation(t, store, 30_000)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{
		ClientID: testClientID, Type: "CAMBIO_PLAN", ReservationID: resIDPtr(res.ID()),
	})

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.StatusFallido,
	})
	require.NoError(t, err)

	row, _ := store.reservation(res.ID())
	assert.Equal(t, credit.StatusReleased, row.status)

	events := store.eventsFor(created.ID())
	assert.Equal(t, order.EventFailed, events[len(events)-1].eventType)
}

func TestAdvanceStatus_NoReservationIsFine(t *testing.T) {
	_, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "BAJA_SERVICIO"})

	advanced, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.StatusFallido,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusFallido, advanced.Status())
}

func TestAdvanceStatus_TerminalOrdersAreFrozen(t *testing.T) {
	store, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "CAMBIO_PLAN"})
	mustAdvance(t, cmd, created.ID(), order.StatusFallido)

	for _, next := range []order.Status{order.StatusPendiente, order.StatusEnProceso, order.StatusAplicado, order.StatusFallido} {
		_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
			OrderID: created.ID(), NewStatus: next,
		})
		require.True(t, errs.Is(err, commands.ErrInvalidOrderTransition), "to %s", next)
	}

	row, _ := store.order(created.ID())
	assert.Equal(t, order.StatusFallido, row.status)
}

func TestAdvanceStatus_SkippingStatesIsRejected(t *testing.T) {
	_, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "CAMBIO_PLAN"})

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.StatusAplicado,
	})
	require.True(t, errs.Is(err, commands.ErrInvalidOrderTransition))
}

func TestAdvanceStatus_UnknownStatusIsValidationError(t *testing.T) {
	_, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "CAMBIO_PLAN"})

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.Status("CANCELADO"),
	})
	require.True(t, errs.Is(err, commands.ErrValidation))
}

// An APLICADO advance against a hold that was already released elsewhere must
// abort instead of applying the order without its money.
func TestAdvanceStatus_ConflictingReservationAbortsEverything(t *testing.T) {
	store, cmd := newOrderFixture(t)
	res := seedActiveReservation(t, store, 30_000)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{
		ClientID: testClientID, Type: "CAMBIO_PLAN", ReservationID: resIDPtr(res.ID()),
	})
	mustAdvance(t, cmd, created.ID(), order.StatusEnProceso)

	// Sneak the hold into RELEASED behind the order's back.
	row, _ := store.reservation(res.ID())
	row.status = credit.StatusReleased
	store.mu.Lock()
	store.reservations[res.ID()] = row
	store.mu.Unlock()

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: created.ID(), NewStatus: order.StatusAplicado,
	})
	require.True(t, errs.Is(err, commands.ErrReservationStateBroken))

	// The status update rolled back with the settlement.
	orderRow, _ := store.order(created.ID())
	assert.Equal(t, order.StatusEnProceso, orderRow.status)
}

func TestAdvanceStatus_UnknownOrder(t *testing.T) {
	_, cmd := newOrderFixture(t)

	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{
		OrderID: uuid.New(), NewStatus: order.StatusEnProceso,
	})
	require.True(t, errs.Is(err, commands.ErrOrderNotFound))
}

func TestAppendEvent_Note(t *testing.T) {
	store, cmd := newOrderFixture(t)
	created := mustCreateOrder(t, cmd, commands.CreateOrderParams{ClientID: testClientID, Type: "CAMBIO_PLAN"})

	err := cmd.AppendEvent(context.Background(), created.ID(), order.EventNote, json.RawMessage(`{"note":"cliente llamó"}`))
	require.NoError(t, err)

	events := store.eventsFor(created.ID())
	require.Len(t, events, 2)
	assert.Equal(t, order.EventNote, events[1].eventType)
}

func TestAppendEvent_UnknownOrder(t *testing.T) {
	_, cmd := newOrderFixture(t)

	err := cmd.AppendEvent(context.Background(), uuid.New(), order.EventNote, nil)
	require.True(t, errs.Is(err, commands.ErrOrderNotFound))
}

func resIDPtr(id uuid.UUID) *uuid.UUID { return &id }

func mustCreateOrder(t *testing.T, cmd commands.OrderCommands, params commands.CreateOrderParams) *order.Order {
	t.Helper()
	result, err := cmd.CreateOrder(context.Background(), params)
	require.NoError(t, err)
	return result.Order
}

func mustAdvance(t *testing.T, cmd commands.OrderCommands, id uuid.UUID, next order.Status) {
	t.Helper()
	_, err := cmd.AdvanceStatus(context.Background(), commands.AdvanceOrderParams{OrderID: id, NewStatus: next})
	require.NoError(t, err)
}
