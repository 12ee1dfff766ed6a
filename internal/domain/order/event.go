package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one immutable entry in the order audit trail. Events are appended,
// never updated or deleted.
type Event struct {
	id        uuid.UUID
	orderID   uuid.UUID
	eventType EventType
	payload   json.RawMessage
	createdAt time.Time
}

func NewEvent(orderID uuid.UUID, eventType EventType, payload json.RawMessage, now time.Time) *Event {
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}
	return &Event{
		id:        uuid.New(),
		orderID:   orderID,
		eventType: eventType,
		payload:   payload,
		createdAt: now,
	}
}

func ReconstructEvent(id, orderID uuid.UUID, eventType EventType, payload json.RawMessage, createdAt time.Time) *Event {
	return &Event{
		id:        id,
		orderID:   orderID,
		eventType: eventType,
		payload:   payload,
		createdAt: createdAt,
	}
}

func (e *Event) ID() uuid.UUID            { return e.id }
func (e *Event) OrderID() uuid.UUID       { return e.orderID }
func (e *Event) Type() EventType          { return e.eventType }
func (e *Event) Payload() json.RawMessage { return e.payload }
func (e *Event) CreatedAt() time.Time     { return e.createdAt }
