package models

import "time"

// Farmer represents a registered farmer account
type Farmer struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StoreAdmin represents an administrator account
type StoreAdmin struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Land represents a farmer-owned parcel
type Land struct {
	ID        int64     `db:"id" json:"id"`
	FarmerID  int64     `db:"farmer_id" json:"farmer_id"`
	UPI       string    `db:"upi" json:"upi"`
	LandSize  float64   `db:"land_size" json:"land_size"` // acres
	Location  string    `db:"location" json:"location,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Seed represents a seed product in the catalog
type Seed struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	PricePerKg  float64   `db:"price_per_kg" json:"price_per_kg"`
	KgPerAcre   float64   `db:"kg_per_acre" json:"kg_per_acre"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Fertilizer represents a fertilizer product and the seeds it may be used with
type Fertilizer struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	PricePerKg  float64   `db:"price_per_kg" json:"price_per_kg"`
	KgPerAcre   float64   `db:"kg_per_acre" json:"kg_per_acre"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// CompatibleSeedIDs is loaded from the fertilizer_seeds link table.
	CompatibleSeedIDs []int64 `db:"-" json:"compatible_seed_ids"`
}

// CompatibleWith reports whether the fertilizer is approved for use with
// the given seed.
func (f *Fertilizer) CompatibleWith(seedID int64) bool {
	for _, id := range f.CompatibleSeedIDs {
		if id == seedID {
			return true
		}
	}
	return false
}

// Order represents a farm-input order placed against a land parcel
type Order struct {
	ID          int64     `db:"id" json:"id"`
	FarmerID    int64     `db:"farmer_id" json:"farmer_id"`
	LandID      int64     `db:"land_id" json:"land_id"`
	Status      string    `db:"status" json:"status"`
	TotalAmount float64   `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is a single seed or fertilizer line within an order.
// Exactly one of SeedID/FertilizerID is set. Quantity and Price are
// snapshots computed at order time and never recomputed.
type OrderItem struct {
	ID           int64   `db:"id" json:"id"`
	OrderID      int64   `db:"order_id" json:"order_id"`
	SeedID       *int64  `db:"seed_id" json:"seed_id,omitempty"`
	FertilizerID *int64  `db:"fertilizer_id" json:"fertilizer_id,omitempty"`
	Quantity     float64 `db:"quantity" json:"quantity"` // kilograms
	Price        float64 `db:"price" json:"price"`       // unit price per kg at creation
}

// OrderItemDetail joins a line item with the referenced product snapshot
// for response composition.
type OrderItemDetail struct {
	OrderItem
	Seed       *Seed       `json:"seed,omitempty"`
	Fertilizer *Fertilizer `json:"fertilizer,omitempty"`
}

// OrderWithItems is an order together with its joined line items.
type OrderWithItems struct {
	Order
	Items []OrderItemDetail `json:"items"`
}

// Order statuses. PENDING is the only initial state; APPROVED and
// REJECTED are reached by administrative action.
const (
	OrderStatusPending  = "PENDING"
	OrderStatusApproved = "APPROVED"
	OrderStatusRejected = "REJECTED"
)

// ValidTransitionStatus reports whether s is a status an administrator may
// transition an order into. PENDING is initial-only.
func ValidTransitionStatus(s string) bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
}

// ProcessedEvent for idempotent event consumption
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Notification is a record written by the notification worker when an
// order event is consumed.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	FarmerID  int64     `db:"farmer_id" json:"farmer_id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
