package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after an order and its line items commit
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	FarmerID    int64           `json:"farmer_id"`
	LandID      int64           `json:"land_id"`
	TotalAmount float64         `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published when an administrator approves or
// rejects an order
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID  int64  `json:"order_id"`
	FarmerID int64  `json:"farmer_id"`
	Status   string `json:"status"`
}

// OrderItemData represents line item data in events
type OrderItemData struct {
	SeedID       *int64  `json:"seed_id,omitempty"`
	FertilizerID *int64  `json:"fertilizer_id,omitempty"`
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price"`
}
