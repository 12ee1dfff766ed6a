//go:build unit || integration

package builder

import (
	"time"

	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	view queries.ReservationView
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		view: queries.ReservationView{
			ID:          uuid.New(),
			ClientID:    "123456",
			AmountCents: 60_000,
			Status:      "ACTIVE",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func (b *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	b.view.ID = id
	return b
}

func (b *ReservationBuilder) WithClientID(clientID string) *ReservationBuilder {
	b.view.ClientID = clientID
	return b
}

func (b *ReservationBuilder) WithAmountCents(cents int64) *ReservationBuilder {
	b.view.AmountCents = cents
	return b
}

func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	b.view.Status = status
	return b
}

func (b *ReservationBuilder) WithOrderID(orderID uuid.UUID) *ReservationBuilder {
	b.view.OrderID = &orderID
	return b
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	view := b.view
	return &view
}

func (b *ReservationBuilder) BuildCreateRequestMap() map[string]any {
	return map[string]any{
		"client_id":    b.view.ClientID,
		"amount_cents": b.view.AmountCents,
	}
}
