package order

// Status values keep the upstream system's Spanish names; they travel through
// the API unchanged.
type Status string

const (
	StatusPendiente Status = "PENDIENTE"
	StatusEnProceso Status = "EN_PROCESO"
	StatusAplicado  Status = "APLICADO"
	StatusFallido   Status = "FALLIDO"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendiente, StatusEnProceso, StatusAplicado, StatusFallido:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusAplicado || s == StatusFallido
}

// validTransitions is the forward-only order state machine.
var validTransitions = map[Status][]Status{
	StatusPendiente: {StatusEnProceso, StatusFallido},
	StatusEnProceso: {StatusAplicado, StatusFallido},
	StatusAplicado:  {},
	StatusFallido:   {},
}

func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EventType classifies entries in the append-only order audit trail.
type EventType string

const (
	EventCreated       EventType = "CREATED"
	EventStatusChanged EventType = "STATUS_CHANGED"
	EventApplied       EventType = "APPLIED"
	EventFailed        EventType = "FAILED"
	EventNote          EventType = "NOTE"
)
