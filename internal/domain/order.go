package domain

import "time"

// SeatRequest is one requested (trip, seat) pair inside a place-order call.
type SeatRequest struct {
	TripID int64 `json:"trip_id"`
	Seat   int   `json:"seat"`
}

// Ticket is a claim on one seat of one trip. Tickets are created only as part
// of an order and are immutable afterwards.
type Ticket struct {
	ID      int64 `json:"id"`
	Seat    int   `json:"seat"`
	TripID  int64 `json:"trip_id"`
	OrderID int64 `json:"order_id"`

	// Trip is filled on order listings only.
	Trip *Trip `json:"trip,omitempty"`
}

// Order is a non-empty bundle of tickets bought together. An order and its
// tickets share one creation transaction; no partial order ever exists.
type Order struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets"`
}
