package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeatLedger is the durable record of taken seats per trip. The tickets
// table behind it enforces (trip_id, seat) uniqueness at the storage level,
// so a race that slips past any application check still fails at commit.
type SeatLedger interface {
	IsTaken(ctx context.Context, tripID int64, seat int) (bool, error)
	TakenSeats(ctx context.Context, tripID int64) ([]int, error)
	CountTaken(ctx context.Context, tripID int64) (int, error)
	CountTakenForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error)
}

type PGSeatLedger struct {
	db *pgxpool.Pool
}

func NewSeatLedger(db *pgxpool.Pool) SeatLedger {
	return &PGSeatLedger{db: db}
}

func (l *PGSeatLedger) IsTaken(ctx context.Context, tripID int64, seat int) (bool, error) {
	var taken bool
	err := l.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE trip_id=$1 AND seat=$2)`, tripID, seat).Scan(&taken)
	return taken, err
}

func (l *PGSeatLedger) TakenSeats(ctx context.Context, tripID int64) ([]int, error) {
	rows, err := l.db.Query(ctx, `SELECT seat FROM tickets WHERE trip_id=$1 ORDER BY seat`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]int, 0)
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}

func (l *PGSeatLedger) CountTaken(ctx context.Context, tripID int64) (int, error) {
	var count int
	err := l.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE trip_id=$1`, tripID).Scan(&count)
	return count, err
}

// CountTakenForTrips aggregates taken-seat counts for many trips in one
// query. Trips with no tickets are absent from the result.
func (l *PGSeatLedger) CountTakenForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(tripIDs))
	if len(tripIDs) == 0 {
		return counts, nil
	}

	rows, err := l.db.Query(ctx, `SELECT trip_id, COUNT(*) FROM tickets WHERE trip_id = ANY($1) GROUP BY trip_id`, tripIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tripID int64
		var count int
		if err := rows.Scan(&tripID, &count); err != nil {
			return nil, err
		}
		counts[tripID] = count
	}
	return counts, rows.Err()
}

var _ SeatLedger = (*PGSeatLedger)(nil)
