package request

import (
	"selfcare-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ClientID    string     `json:"client_id" binding:"required"`
	AmountCents int64      `json:"amount_cents" binding:"required,gt=0"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
}

func (r CreateReservationRequest) ToParams() commands.ReserveParams {
	return commands.ReserveParams{
		ClientID:    r.ClientID,
		AmountCents: r.AmountCents,
		OrderID:     r.OrderID,
	}
}
