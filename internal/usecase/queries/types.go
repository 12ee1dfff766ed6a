package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Read models returned to the handler layer. Write-side entities never cross
// this boundary.

type ReservationView struct {
	ID          uuid.UUID
	ClientID    string
	OrderID     *uuid.UUID
	AmountCents int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderEventView struct {
	ID        uuid.UUID
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}

type OrderView struct {
	ID             uuid.UUID
	ClientID       string
	Type           string
	Status         string
	ConexionID     *string
	PreviousPlanID *string
	TargetPlanID   *string
	TicketID       *string
	IdempotencyKey *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Events         []OrderEventView
}

type ProductView struct {
	ID         uuid.UUID
	ShopID     string
	Name       string
	SKU        string
	PriceCents int64
	Currency   string
	Active     bool
	SyncedAt   time.Time
}

// CreditProfileView is derived on every read: official limit from upstream,
// reserved total from local storage, available clamped at zero.
type CreditProfileView struct {
	ClientID           string
	OfficialLimitCents int64
	ReservedTotalCents int64
	AvailableCents     int64
	Currency           string
}
