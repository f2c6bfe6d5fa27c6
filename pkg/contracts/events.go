// Package contracts defines the wire shape of events pushed to websocket
// clients and to the kafka stream. Both channels carry the same envelope.
package contracts

import "time"

type Event struct {
	EventID   string         `json:"event_id"`
	Type      string         `json:"type"`
	OrderID   string         `json:"order_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload,omitempty"`
}

const (
	EventNewOrder           = "new_order"
	EventOrderReady         = "order_ready"
	EventOrderStatusChanged = "order.status_changed"
	EventMenuItemArchived   = "menu.item_archived"
)

// ScopeStaff addresses every connected staff dashboard; UserScope addresses
// the connections of a single user.
const ScopeStaff = "staff"

func UserScope(userID string) string { return "user:" + userID }
