package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/busstation/internal/domain"
)

type TripRepository interface {
	List(ctx context.Context) ([]domain.TripSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	GetDetail(ctx context.Context, id int64) (*domain.TripDetail, error)
	Create(ctx context.Context, trip *domain.Trip) error
	Update(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id int64) error
	BusCapacity(ctx context.Context, tripID int64) (int, error)
	CapacityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

// List returns every trip with its remaining seat count, computed in a
// single aggregate pass so the work does not scale with one query per trip.
func (r *PGTripRepository) List(ctx context.Context) ([]domain.TripSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.source, t.destination, t.departure, t.bus_id,
		       b.info, b.num_seats, b.num_seats - COUNT(tk.id) AS tickets_available
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		LEFT JOIN tickets tk ON tk.trip_id = t.id
		GROUP BY t.id, b.id
		ORDER BY t.departure`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.TripSummary, 0)
	for rows.Next() {
		var t domain.TripSummary
		if err := rows.Scan(&t.ID, &t.Source, &t.Destination, &t.Departure, &t.BusID,
			&t.BusInfo, &t.BusNumSeats, &t.TicketsAvailable); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT id, source, destination, departure, bus_id, created_at, updated_at FROM trips WHERE id=$1`, id)
	var t domain.Trip
	if err := row.Scan(&t.ID, &t.Source, &t.Destination, &t.Departure, &t.BusID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetDetail loads the trip together with its bus and the bus facilities.
// Taken seats come from the seat ledger and are filled by the caller.
func (r *PGTripRepository) GetDetail(ctx context.Context, id int64) (*domain.TripDetail, error) {
	row := r.db.QueryRow(ctx, `
		SELECT t.id, t.source, t.destination, t.departure, t.bus_id, t.created_at, t.updated_at,
		       b.id, b.info, b.num_seats, b.image_path, b.created_at, b.updated_at
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		WHERE t.id=$1`, id)

	var d domain.TripDetail
	if err := row.Scan(&d.ID, &d.Source, &d.Destination, &d.Departure, &d.BusID, &d.CreatedAt, &d.UpdatedAt,
		&d.Bus.ID, &d.Bus.Info, &d.Bus.NumSeats, &d.Bus.ImagePath, &d.Bus.CreatedAt, &d.Bus.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}

	facilities, err := loadFacilities(ctx, r.db, []int64{d.Bus.ID})
	if err != nil {
		return nil, err
	}
	d.Bus.Facilities = facilities[d.Bus.ID]
	return &d, nil
}

func (r *PGTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	err := r.db.QueryRow(ctx, `INSERT INTO trips (source, destination, departure, bus_id) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		trip.Source, trip.Destination, trip.Departure, trip.BusID).
		Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrBusNotFound
		}
		return err
	}
	return nil
}

func (r *PGTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	err := r.db.QueryRow(ctx, `UPDATE trips SET source=$2, destination=$3, departure=$4, bus_id=$5, updated_at=now() WHERE id=$1 RETURNING created_at, updated_at`,
		trip.ID, trip.Source, trip.Destination, trip.Departure, trip.BusID).
		Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTripNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrBusNotFound
		}
		return err
	}
	return nil
}

// Delete removes the trip; its tickets go with it via the FK cascade.
func (r *PGTripRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}

// BusCapacity resolves a trip's seat capacity through its bus.
func (r *PGTripRepository) BusCapacity(ctx context.Context, tripID int64) (int, error) {
	var capacity int
	err := r.db.QueryRow(ctx, `SELECT b.num_seats FROM trips t JOIN buses b ON b.id = t.bus_id WHERE t.id=$1`, tripID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrTripNotFound
		}
		return 0, err
	}
	return capacity, nil
}

func (r *PGTripRepository) CapacityForTrips(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	capacities := make(map[int64]int, len(tripIDs))
	if len(tripIDs) == 0 {
		return capacities, nil
	}

	rows, err := r.db.Query(ctx, `SELECT t.id, b.num_seats FROM trips t JOIN buses b ON b.id = t.bus_id WHERE t.id = ANY($1)`, tripIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var capacity int
		if err := rows.Scan(&id, &capacity); err != nil {
			return nil, err
		}
		capacities[id] = capacity
	}
	return capacities, rows.Err()
}

var _ TripRepository = (*PGTripRepository)(nil)
