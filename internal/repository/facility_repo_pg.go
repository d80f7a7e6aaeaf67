package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/busstation/internal/domain"
)

type FacilityRepository interface {
	List(ctx context.Context) ([]domain.Facility, error)
	GetByID(ctx context.Context, id int64) (*domain.Facility, error)
	Create(ctx context.Context, facility *domain.Facility) error
	Update(ctx context.Context, facility *domain.Facility) error
	Delete(ctx context.Context, id int64) error
}

type PGFacilityRepository struct {
	db *pgxpool.Pool
}

func NewFacilityRepository(db *pgxpool.Pool) FacilityRepository {
	return &PGFacilityRepository{db: db}
}

func (r *PGFacilityRepository) List(ctx context.Context) ([]domain.Facility, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM facilities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facilities := make([]domain.Facility, 0)
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

func (r *PGFacilityRepository) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	var f domain.Facility
	err := r.db.QueryRow(ctx, `SELECT id, name FROM facilities WHERE id=$1`, id).Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFacilityRepository) Create(ctx context.Context, facility *domain.Facility) error {
	return r.db.QueryRow(ctx, `INSERT INTO facilities (name) VALUES ($1) RETURNING id`, facility.Name).Scan(&facility.ID)
}

func (r *PGFacilityRepository) Update(ctx context.Context, facility *domain.Facility) error {
	cmd, err := r.db.Exec(ctx, `UPDATE facilities SET name=$2 WHERE id=$1`, facility.ID, facility.Name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}

func (r *PGFacilityRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM facilities WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}

var _ FacilityRepository = (*PGFacilityRepository)(nil)
