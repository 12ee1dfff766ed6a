package commands

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/pkg/clock"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound          = errs.New("order not found")
	ErrInvalidOrderTransition = errs.New("invalid order transition")
	ErrReservationStateBroken = errs.New("backing reservation in conflicting state")
)

type CreateOrderParams struct {
	ClientID       string
	Type           string
	InitialStatus  order.Status
	ConexionID     *string
	PreviousPlanID *string
	TargetPlanID   *string
	TicketID       *string
	IdempotencyKey *string
	// ReservationID binds an existing hold to the new order.
	ReservationID *uuid.UUID
}

type CreateOrderResult struct {
	Order      *order.Order
	IsReplayed bool
}

type AdvanceOrderParams struct {
	OrderID      uuid.UUID
	NewStatus    order.Status
	EventPayload json.RawMessage
}

type OrderCommands interface {
	// CreateOrder is idempotent on (clientId, idempotencyKey): a retried
	// submission returns the stored order instead of creating a second one.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderResult, error)
	// AdvanceStatus moves the order along its state machine. Reaching
	// APLICADO consumes the backing reservation, reaching FALLIDO releases
	// it, in the same transaction as the status update.
	AdvanceStatus(ctx context.Context, params AdvanceOrderParams) (*order.Order, error)
	// AppendEvent records a pure audit entry.
	AppendEvent(ctx context.Context, orderID uuid.UUID, eventType order.EventType, payload json.RawMessage) error
}

type orderCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, clock: clk}
}

func (c *orderCommandsImpl) CreateOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderResult, error) {
	if strings.TrimSpace(params.ClientID) == "" || strings.TrimSpace(params.Type) == "" {
		return nil, errs.Mark(errs.New("client id and type are required"), ErrValidation)
	}

	var result *CreateOrderResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockClient(ctx, params.ClientID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if params.IdempotencyKey != nil {
			existing, err := tx.Orders().FindByIdempotencyKey(ctx, tx.DB(), params.ClientID, *params.IdempotencyKey)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if existing != nil {
				result = &CreateOrderResult{Order: existing, IsReplayed: true}
				return nil
			}
		}

		now := c.clock.Now()
		newOrder, err := order.NewOrder(
			params.ClientID, params.Type, params.InitialStatus,
			order.PlanChange{
				ConexionID:     params.ConexionID,
				PreviousPlanID: params.PreviousPlanID,
				TargetPlanID:   params.TargetPlanID,
			},
			params.TicketID, params.IdempotencyKey, now,
		)
		if err != nil {
			return errs.Mark(err, ErrValidation)
		}

		if err := tx.Orders().Create(ctx, tx.DB(), newOrder); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if params.ReservationID != nil {
			if err := c.bindReservation(ctx, tx, *params.ReservationID, newOrder, now); err != nil {
				return err
			}
		}

		created := order.NewEvent(newOrder.ID(), order.EventCreated, params.creationPayload(), now)
		if err := tx.Orders().AppendEvent(ctx, tx.DB(), created); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &CreateOrderResult{Order: newOrder, IsReplayed: false}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// bindReservation back-references an existing ACTIVE hold to the new order.
func (c *orderCommandsImpl) bindReservation(
	ctx context.Context,
	tx shared.Tx,
	reservationID uuid.UUID,
	newOrder *order.Order,
	now time.Time,
) error {
	reservation, err := tx.Reservations().GetForUpdate(ctx, tx.DB(), reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if reservation.ClientID() != newOrder.ClientID() {
		return errs.Mark(errs.New("reservation belongs to another client"), ErrValidation)
	}
	if !reservation.IsActive() {
		return errs.Mark(errs.New("reservation is not active"), ErrReservationStateBroken)
	}
	if err := reservation.AttachOrder(newOrder.ID(), now); err != nil {
		return errs.Mark(err, ErrValidation)
	}
	if err := tx.Reservations().Save(ctx, tx.DB(), reservation); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *orderCommandsImpl) AdvanceStatus(ctx context.Context, params AdvanceOrderParams) (*order.Order, error) {
	var advanced *order.Order
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		peek, err := tx.Orders().GetByID(ctx, tx.DB(), params.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Same lock and same order (client first, rows second) as Reserve
		// and Release/Consume, so a user advance and the reconciliation job
		// can never interleave on one customer.
		if err := tx.LockClient(ctx, peek.ClientID()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		current, err := tx.Orders().GetForUpdate(ctx, tx.DB(), params.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := c.clock.Now()
		if err := current.AdvanceTo(params.NewStatus, now); err != nil {
			switch {
			case errs.Is(err, order.ErrInvalidStatus):
				return errs.Mark(err, ErrValidation)
			default:
				return errs.Mark(err, ErrInvalidOrderTransition)
			}
		}

		// Terminal transitions settle the backing reservation inside this
		// same transaction; if the reservation side fails the status update
		// rolls back with it.
		if params.NewStatus == order.StatusAplicado || params.NewStatus == order.StatusFallido {
			if err := c.settleReservation(ctx, tx, current, params.NewStatus, now); err != nil {
				return err
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), current); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		event := order.NewEvent(current.ID(), eventTypeFor(params.NewStatus), params.EventPayload, now)
		if err := tx.Orders().AppendEvent(ctx, tx.DB(), event); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		advanced = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return advanced, nil
}

func (c *orderCommandsImpl) AppendEvent(ctx context.Context, orderID uuid.UUID, eventType order.EventType, payload json.RawMessage) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Orders().GetByID(ctx, tx.DB(), orderID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		event := order.NewEvent(orderID, eventType, payload, c.clock.Now())
		if err := tx.Orders().AppendEvent(ctx, tx.DB(), event); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// settleReservation consumes or releases the hold backing the order. An
// already-settled hold in the matching state is fine (reconciliation may have
// won the race); a hold in the opposite terminal state means the combined
// invariant would break, so the whole transaction is aborted.
func (c *orderCommandsImpl) settleReservation(
	ctx context.Context,
	tx shared.Tx,
	current *order.Order,
	newStatus order.Status,
	now time.Time,
) error {
	reservation, err := tx.Reservations().FindByOrderID(ctx, tx.DB(), current.ID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if reservation == nil {
		// Orders without a financial commitment have nothing to settle.
		return nil
	}

	if newStatus == order.StatusAplicado {
		if err := reservation.Consume(now); err != nil {
			return errs.Mark(err, ErrReservationStateBroken)
		}
	} else {
		if err := reservation.Release(now); err != nil {
			return errs.Mark(err, ErrReservationStateBroken)
		}
	}

	if err := tx.Reservations().Save(ctx, tx.DB(), reservation); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func eventTypeFor(status order.Status) order.EventType {
	switch status {
	case order.StatusAplicado:
		return order.EventApplied
	case order.StatusFallido:
		return order.EventFailed
	default:
		return order.EventStatusChanged
	}
}

func (p CreateOrderParams) creationPayload() json.RawMessage {
	payload := map[string]any{"type": p.Type}
	if p.TicketID != nil {
		payload["ticket_id"] = *p.TicketID
	}
	if p.TargetPlanID != nil {
		payload["target_plan_id"] = *p.TargetPlanID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
