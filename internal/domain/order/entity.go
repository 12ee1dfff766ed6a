package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyClient       = errors.New("client id is required")
	ErrEmptyType         = errors.New("order type is required")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidInitial    = errors.New("invalid initial order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrTerminalOrder     = errors.New("order is in a terminal status")
)

// PlanChange carries the optional service-change fields of an order.
type PlanChange struct {
	ConexionID     *string
	PreviousPlanID *string
	TargetPlanID   *string
}

type Order struct {
	id             uuid.UUID
	clientID       string
	orderType      string
	status         Status
	planChange     PlanChange
	ticketID       *string
	idempotencyKey *string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewOrder creates an order in PENDIENTE, or EN_PROCESO for pre-validated
// flows. Terminal initial statuses are rejected.
func NewOrder(
	clientID, orderType string,
	initial Status,
	planChange PlanChange,
	ticketID, idempotencyKey *string,
	now time.Time,
) (*Order, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrEmptyClient
	}
	if strings.TrimSpace(orderType) == "" {
		return nil, ErrEmptyType
	}
	if initial == "" {
		initial = StatusPendiente
	}
	if !initial.IsValid() {
		return nil, ErrInvalidStatus
	}
	if initial.IsTerminal() {
		return nil, ErrInvalidInitial
	}

	return &Order{
		id:             uuid.New(),
		clientID:       clientID,
		orderType:      orderType,
		status:         initial,
		planChange:     planChange,
		ticketID:       ticketID,
		idempotencyKey: idempotencyKey,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	clientID, orderType string,
	status Status,
	planChange PlanChange,
	ticketID, idempotencyKey *string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:             id,
		clientID:       clientID,
		orderType:      orderType,
		status:         status,
		planChange:     planChange,
		ticketID:       ticketID,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// AdvanceTo moves the order along the state machine. Terminal states are
// absorbing.
func (o *Order) AdvanceTo(next Status, now time.Time) error {
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if o.status.IsTerminal() {
		return ErrTerminalOrder
	}
	if !CanTransition(o.status, next) {
		return ErrInvalidTransition
	}
	o.status = next
	o.updatedAt = now
	return nil
}

func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

func (o *Order) ID() uuid.UUID           { return o.id }
func (o *Order) ClientID() string        { return o.clientID }
func (o *Order) Type() string            { return o.orderType }
func (o *Order) Status() Status          { return o.status }
func (o *Order) PlanChange() PlanChange  { return o.planChange }
func (o *Order) TicketID() *string       { return o.ticketID }
func (o *Order) IdempotencyKey() *string { return o.idempotencyKey }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }
