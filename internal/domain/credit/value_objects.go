package credit

import "errors"

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// SubClamped subtracts, clamping at zero instead of going negative.
func (m Money) SubClamped(other Money) Money {
	remaining := m.cents - other.cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

// Profile is the derived credit position of a customer. It is recomputed on
// every read from the upstream official limit and the local reservation sum,
// never stored.
type Profile struct {
	OfficialLimit Money
	ReservedTotal Money
	Available     Money
}

func NewProfile(officialLimit, reservedTotal Money) Profile {
	return Profile{
		OfficialLimit: officialLimit,
		ReservedTotal: reservedTotal,
		Available:     officialLimit.SubClamped(reservedTotal),
	}
}

// CanReserve reports whether amount fits in the remaining headroom.
func (p Profile) CanReserve(amount Money) bool {
	return !amount.GreaterThan(p.Available)
}
