//go:build unit || integration

package builder

import (
	"time"

	"selfcare-backend/internal/domain/order"
	"selfcare-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	clientID   string
	orderType  string
	status     order.Status
	planChange order.PlanChange
	ticketID   *string
	idemKey    *string
	createdAt  time.Time
}

func NewOrderBuilder() *OrderBuilder {
	conexionID := "conn-9"
	targetPlan := "plan-600"
	return &OrderBuilder{
		clientID:  "123456",
		orderType: "CAMBIO_PLAN",
		status:    order.StatusPendiente,
		planChange: order.PlanChange{
			ConexionID:   &conexionID,
			TargetPlanID: &targetPlan,
		},
		createdAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) WithClientID(clientID string) *OrderBuilder {
	b.clientID = clientID
	return b
}

func (b *OrderBuilder) WithStatus(status order.Status) *OrderBuilder {
	b.status = status
	return b
}

func (b *OrderBuilder) WithIdempotencyKey(key string) *OrderBuilder {
	b.idemKey = &key
	return b
}

func (b *OrderBuilder) BuildEntity() *order.Order {
	return order.ReconstructOrder(
		uuid.New(), b.clientID, b.orderType, b.status,
		b.planChange, b.ticketID, b.idemKey,
		b.createdAt, b.createdAt,
	)
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	return &queries.OrderView{
		ID:             uuid.New(),
		ClientID:       b.clientID,
		Type:           b.orderType,
		Status:         b.status.String(),
		ConexionID:     b.planChange.ConexionID,
		PreviousPlanID: b.planChange.PreviousPlanID,
		TargetPlanID:   b.planChange.TargetPlanID,
		TicketID:       b.ticketID,
		IdempotencyKey: b.idemKey,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}
}

func (b *OrderBuilder) BuildCreateRequestMap() map[string]any {
	m := map[string]any{
		"client_id": b.clientID,
		"type":      b.orderType,
	}
	if b.planChange.ConexionID != nil {
		m["conexion_id"] = *b.planChange.ConexionID
	}
	if b.planChange.TargetPlanID != nil {
		m["target_plan_id"] = *b.planChange.TargetPlanID
	}
	return m
}
