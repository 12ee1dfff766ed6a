package request

import (
	"encoding/json"
	"strings"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	ClientID       string     `json:"client_id" binding:"required"`
	Type           string     `json:"type" binding:"required"`
	InitialStatus  string     `json:"initial_status,omitempty"`
	ConexionID     *string    `json:"conexion_id,omitempty"`
	PreviousPlanID *string    `json:"previous_plan_id,omitempty"`
	TargetPlanID   *string    `json:"target_plan_id,omitempty"`
	TicketID       *string    `json:"ticket_id,omitempty"`
	ReservationID  *uuid.UUID `json:"reservation_id,omitempty"`
}

func (r CreateOrderRequest) ToParams(idempotencyKey *string) commands.CreateOrderParams {
	return commands.CreateOrderParams{
		ClientID:       r.ClientID,
		Type:           strings.ToUpper(strings.TrimSpace(r.Type)),
		InitialStatus:  order.Status(r.InitialStatus),
		ConexionID:     r.ConexionID,
		PreviousPlanID: r.PreviousPlanID,
		TargetPlanID:   r.TargetPlanID,
		TicketID:       r.TicketID,
		IdempotencyKey: idempotencyKey,
		ReservationID:  r.ReservationID,
	}
}

type AdvanceOrderRequest struct {
	Status  string          `json:"status" binding:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type AppendEventRequest struct {
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
