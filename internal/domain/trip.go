package domain

import "time"

type Trip struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	BusID       int64     `json:"bus_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TripSummary is the browsing view of a trip: trip fields plus the bus
// essentials and the remaining seat count, computed in one pass for the
// whole listing.
type TripSummary struct {
	ID               int64     `json:"id"`
	Source           string    `json:"source"`
	Destination      string    `json:"destination"`
	Departure        time.Time `json:"departure"`
	BusID            int64     `json:"bus_id"`
	BusInfo          string    `json:"bus_info"`
	BusNumSeats      int       `json:"bus_num_seats"`
	TicketsAvailable int       `json:"tickets_available"`
}

// TripDetail is the retrieve view: the trip, its full bus and the seat
// numbers already claimed, ascending.
type TripDetail struct {
	Trip
	Bus        Bus   `json:"bus"`
	TakenSeats []int `json:"taken_seats"`
}
