package credit

// Status is the reservation lifecycle state. Only ACTIVE reservations count
// toward a customer's reserved total.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusReleased Status = "RELEASED"
	StatusConsumed Status = "CONSUMED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReleased, StatusConsumed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition may leave this state.
func (s Status) IsTerminal() bool {
	return s == StatusReleased || s == StatusConsumed
}
