package domain

// OrderStatus follows a single forward path. Transitions that skip ahead or
// move backward are rejected; "ready" can therefore be entered at most once
// per order, which is what makes the ready-edge notification at-most-once.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusCompleted:
		return true
	}
	return false
}

// Next returns the successor status, or false from the terminal status.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusReady, true
	case StatusReady:
		return StatusCompleted, true
	}
	return "", false
}

// Predecessor returns the status an order must currently hold for a
// transition into s to be legal.
func Predecessor(s OrderStatus) (OrderStatus, bool) {
	switch s {
	case StatusInProgress:
		return StatusPending, true
	case StatusReady:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusReady, true
	}
	return "", false
}

func CanTransition(from, to OrderStatus) bool {
	next, ok := from.Next()
	return ok && next == to
}
