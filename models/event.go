package models

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
	EventWaiterCallCreated  = "waiter_call.created"
	EventWaiterCallResolved = "waiter_call.resolved"
)

// Event is a domain notification published after a successful write.
type Event struct {
	Type       string      `json:"type"`
	TenantID   string      `json:"restaurant_id"`
	EntityID   string      `json:"entity_id"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
