package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder rejects place-order requests with zero tickets.
	ErrEmptyOrder = errors.New("order must contain at least one ticket")

	// ErrInvalidSeatCount rejects buses declared with fewer than one seat.
	ErrInvalidSeatCount = errors.New("num_seats must be at least 1")

	ErrBusNotFound      = errors.New("bus not found")
	ErrTripNotFound     = errors.New("trip not found")
	ErrFacilityNotFound = errors.New("facility not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// SeatOutOfRangeError reports a seat outside [1, capacity] for its trip's bus.
type SeatOutOfRangeError struct {
	Seat     int
	Capacity int
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("seat must be in range [1, %d], not %d", e.Capacity, e.Seat)
}

// DuplicateSeatError reports the same (trip, seat) pair appearing twice in
// one place-order request.
type DuplicateSeatError struct {
	TripID int64
	Seat   int
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("seat %d on trip %d requested more than once", e.Seat, e.TripID)
}

// SeatTakenError reports a commit-time uniqueness conflict: another order
// holds the seat already.
type SeatTakenError struct {
	TripID int64
	Seat   int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d on trip %d is already taken", e.Seat, e.TripID)
}

// ValidateSeat is the single definition of the seat-range rule, shared by
// every path that accepts a seat number.
func ValidateSeat(seat, capacity int) error {
	if seat < 1 || seat > capacity {
		return &SeatOutOfRangeError{Seat: seat, Capacity: capacity}
	}
	return nil
}

// Availability computes remaining seats from capacity and the taken count.
// A negative result means the ledger holds more tickets than the bus has
// seats, which the unique constraint should make impossible.
func Availability(capacity, taken int) (int, error) {
	available := capacity - taken
	if available < 0 {
		return 0, fmt.Errorf("taken seats %d exceed capacity %d", taken, capacity)
	}
	return available, nil
}
