package domain

import "time"

// Facility is an amenity tag attached to buses (wifi, AC and so on).
type Facility struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Bus struct {
	ID         int64      `json:"id"`
	Info       string     `json:"info"`
	NumSeats   int        `json:"num_seats"`
	Facilities []Facility `json:"facilities"`
	ImagePath  string     `json:"image,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SmallBusSeats is the seat count at or below which a bus counts as small.
const SmallBusSeats = 25

func (b *Bus) IsSmall() bool {
	return b.NumSeats <= SmallBusSeats
}
