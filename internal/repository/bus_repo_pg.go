package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/busstation/internal/domain"
)

// BusFilter narrows and pages bus listings.
type BusFilter struct {
	FacilityIDs []int64
	Limit       int
	Offset      int
}

type BusRepository interface {
	List(ctx context.Context, filter BusFilter) ([]domain.Bus, error)
	GetByID(ctx context.Context, id int64) (*domain.Bus, error)
	Create(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error
	Update(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error
	Delete(ctx context.Context, id int64) error
	SetImagePath(ctx context.Context, id int64, path string) error
}

type PGBusRepository struct {
	db *pgxpool.Pool
}

func NewBusRepository(db *pgxpool.Pool) BusRepository {
	return &PGBusRepository{db: db}
}

func (r *PGBusRepository) List(ctx context.Context, filter BusFilter) ([]domain.Bus, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(filter.FacilityIDs) > 0 {
		rows, err = r.db.Query(ctx, `
			SELECT DISTINCT b.id, b.info, b.num_seats, b.image_path, b.created_at, b.updated_at
			FROM buses b
			JOIN bus_facilities bf ON bf.bus_id = b.id
			WHERE bf.facility_id = ANY($1)
			ORDER BY b.id
			LIMIT $2 OFFSET $3`, filter.FacilityIDs, filter.Limit, filter.Offset)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT b.id, b.info, b.num_seats, b.image_path, b.created_at, b.updated_at
			FROM buses b
			ORDER BY b.id
			LIMIT $1 OFFSET $2`, filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := make([]domain.Bus, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var b domain.Bus
		if err := rows.Scan(&b.ID, &b.Info, &b.NumSeats, &b.ImagePath, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		buses = append(buses, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	facilities, err := loadFacilities(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range buses {
		buses[i].Facilities = facilities[buses[i].ID]
	}
	return buses, nil
}

func (r *PGBusRepository) GetByID(ctx context.Context, id int64) (*domain.Bus, error) {
	row := r.db.QueryRow(ctx, `SELECT id, info, num_seats, image_path, created_at, updated_at FROM buses WHERE id=$1`, id)
	var b domain.Bus
	if err := row.Scan(&b.ID, &b.Info, &b.NumSeats, &b.ImagePath, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBusNotFound
		}
		return nil, err
	}

	facilities, err := loadFacilities(ctx, r.db, []int64{b.ID})
	if err != nil {
		return nil, err
	}
	b.Facilities = facilities[b.ID]
	return &b, nil
}

func (r *PGBusRepository) Create(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO buses (info, num_seats, image_path) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		bus.Info, bus.NumSeats, bus.ImagePath).Scan(&bus.ID, &bus.CreatedAt, &bus.UpdatedAt); err != nil {
		return err
	}

	if err := replaceBusFacilities(ctx, tx, bus.ID, facilityIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	facilities, err := loadFacilities(ctx, r.db, []int64{bus.ID})
	if err != nil {
		return err
	}
	bus.Facilities = facilities[bus.ID]
	return nil
}

func (r *PGBusRepository) Update(ctx context.Context, bus *domain.Bus, facilityIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `UPDATE buses SET info=$2, num_seats=$3, updated_at=now() WHERE id=$1 RETURNING created_at, updated_at`,
		bus.ID, bus.Info, bus.NumSeats).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBusNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bus_facilities WHERE bus_id=$1`, bus.ID); err != nil {
		return err
	}
	if err := replaceBusFacilities(ctx, tx, bus.ID, facilityIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	facilities, err := loadFacilities(ctx, r.db, []int64{bus.ID})
	if err != nil {
		return err
	}
	bus.Facilities = facilities[bus.ID]
	return nil
}

func (r *PGBusRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBusNotFound
	}
	return nil
}

func (r *PGBusRepository) SetImagePath(ctx context.Context, id int64, path string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE buses SET image_path=$2, updated_at=now() WHERE id=$1`, id, path)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBusNotFound
	}
	return nil
}

func replaceBusFacilities(ctx context.Context, tx pgx.Tx, busID int64, facilityIDs []int64) error {
	for _, fid := range facilityIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO bus_facilities (bus_id, facility_id) VALUES ($1, $2)`, busID, fid); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return domain.ErrFacilityNotFound
			}
			return err
		}
	}
	return nil
}

// loadFacilities fetches the facility sets for a batch of buses at once.
func loadFacilities(ctx context.Context, db *pgxpool.Pool, busIDs []int64) (map[int64][]domain.Facility, error) {
	byBus := make(map[int64][]domain.Facility, len(busIDs))
	if len(busIDs) == 0 {
		return byBus, nil
	}

	rows, err := db.Query(ctx, `
		SELECT bf.bus_id, f.id, f.name
		FROM bus_facilities bf
		JOIN facilities f ON f.id = bf.facility_id
		WHERE bf.bus_id = ANY($1)
		ORDER BY f.name`, busIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var busID int64
		var f domain.Facility
		if err := rows.Scan(&busID, &f.ID, &f.Name); err != nil {
			return nil, err
		}
		byBus[busID] = append(byBus[busID], f)
	}
	return byBus, rows.Err()
}

var _ BusRepository = (*PGBusRepository)(nil)
