package model

// OrderStatus is the state of the order flow. Exactly one value holds at a time.
type OrderStatus int

// Order flow states.
const (
	StatusIdle OrderStatus = iota
	StatusValidating
	StatusCalculating
	StatusCooldown
)

func (s OrderStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusValidating:
		return "validating"
	case StatusCalculating:
		return "calculating"
	case StatusCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}
