package response

import (
	"time"

	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    string     `json:"clientId"`
	OrderID     *uuid.UUID `json:"orderId,omitempty"`
	AmountCents int64      `json:"amountCents"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(views))
	for i, view := range views {
		out[i] = FromReservationView(view)
	}
	return out
}
