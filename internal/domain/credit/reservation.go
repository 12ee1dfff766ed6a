package credit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyReleased = errors.New("reservation is already released")
	ErrAlreadyConsumed = errors.New("reservation is already consumed")
	ErrInvalidStatus   = errors.New("invalid reservation status")
	ErrEmptyClient     = errors.New("client id is required")
	ErrZeroAmount      = errors.New("reservation amount must be positive")
)

// Reservation is a provisional hold against a customer's official credit
// limit. Amount is immutable after creation; adjusting means release and
// re-reserve.
type Reservation struct {
	id        uuid.UUID
	clientID  string
	orderID   *uuid.UUID
	amount    Money
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewReservation(clientID string, amount Money, orderID *uuid.UUID, now time.Time) (*Reservation, error) {
	if clientID == "" {
		return nil, ErrEmptyClient
	}
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	return &Reservation{
		id:        uuid.New(),
		clientID:  clientID,
		orderID:   orderID,
		amount:    amount,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id uuid.UUID,
	clientID string,
	orderID *uuid.UUID,
	amount Money,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		clientID:  clientID,
		orderID:   orderID,
		amount:    amount,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Release cancels the hold, returning its amount to available credit.
// Releasing an already-released reservation is a no-op so that retried
// cancellations stay idempotent; a consumed reservation can never be
// released again.
func (r *Reservation) Release(now time.Time) error {
	switch r.status {
	case StatusActive:
		r.status = StatusReleased
		r.updatedAt = now
		return nil
	case StatusReleased:
		return nil
	case StatusConsumed:
		return ErrAlreadyConsumed
	default:
		return ErrInvalidStatus
	}
}

// Consume finalizes the hold into an actual financial commitment.
func (r *Reservation) Consume(now time.Time) error {
	switch r.status {
	case StatusActive:
		r.status = StatusConsumed
		r.updatedAt = now
		return nil
	case StatusConsumed:
		return nil
	case StatusReleased:
		return ErrAlreadyReleased
	default:
		return ErrInvalidStatus
	}
}

// AttachOrder back-references the order this hold backs. A reservation never
// references more than one order.
func (r *Reservation) AttachOrder(orderID uuid.UUID, now time.Time) error {
	if r.orderID != nil && *r.orderID != orderID {
		return errors.New("reservation already backs another order")
	}
	r.orderID = &orderID
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusActive
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) ClientID() string     { return r.clientID }
func (r *Reservation) OrderID() *uuid.UUID  { return r.orderID }
func (r *Reservation) Amount() Money        { return r.amount }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
