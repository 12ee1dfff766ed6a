package response

import (
	"encoding/json"
	"time"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID             uuid.UUID            `json:"id"`
	ClientID       string               `json:"clientId"`
	Type           string               `json:"type"`
	Status         string               `json:"status"`
	ConexionID     *string              `json:"conexionId,omitempty"`
	PreviousPlanID *string              `json:"previousPlanId,omitempty"`
	TargetPlanID   *string              `json:"targetPlanId,omitempty"`
	TicketID       *string              `json:"ticketId,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Events         []OrderEventResponse `json:"events,omitempty"`
}

type OrderEventResponse struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	var resp OrderResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

// FromOrderEntity serves the write path, which returns the entity created or
// advanced inside the transaction rather than a re-read view.
func FromOrderEntity(o *order.Order) *OrderResponse {
	plan := o.PlanChange()
	return &OrderResponse{
		ID:             o.ID(),
		ClientID:       o.ClientID(),
		Type:           o.Type(),
		Status:         o.Status().String(),
		ConexionID:     plan.ConexionID,
		PreviousPlanID: plan.PreviousPlanID,
		TargetPlanID:   plan.TargetPlanID,
		TicketID:       o.TicketID(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}
