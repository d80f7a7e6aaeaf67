package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/busstation/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type OrderRepository interface {
	CreateWithTickets(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

// CreateWithTickets writes the order row and every ticket row in one
// transaction. The tickets table carries a unique constraint on
// (trip_id, seat); when a concurrent order wins the race for a seat the
// insert fails here and the whole transaction rolls back, so readers never
// observe a partial order.
func (r *PGOrderRepository) CreateWithTickets(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO orders (reference, user_id) VALUES ($1, $2) RETURNING id, created_at`,
		order.Reference, order.UserID).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for i := range order.Tickets {
		t := &order.Tickets[i]
		t.OrderID = order.ID
		err := tx.QueryRow(ctx, `INSERT INTO tickets (seat, trip_id, order_id) VALUES ($1, $2, $3) RETURNING id`,
			t.Seat, t.TripID, t.OrderID).Scan(&t.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgUniqueViolation:
					return &domain.SeatTakenError{TripID: t.TripID, Seat: t.Seat}
				case pgForeignKeyViolation:
					return domain.ErrTripNotFound
				}
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, user_id, created_at FROM orders WHERE id=$1`, id)
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Reference, &o.UserID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	tickets, err := r.ticketsForOrders(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Tickets = tickets[o.ID]
	return &o, nil
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT id, reference, user_id, created_at FROM orders WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tickets, err := r.ticketsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Tickets = tickets[orders[i].ID]
	}
	return orders, nil
}

// ticketsForOrders loads tickets with their trip summaries for a set of
// orders, seat ascending within each trip.
func (r *PGOrderRepository) ticketsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]domain.Ticket, error) {
	byOrder := make(map[int64][]domain.Ticket, len(orderIDs))
	if len(orderIDs) == 0 {
		return byOrder, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT tk.id, tk.seat, tk.trip_id, tk.order_id,
		       t.id, t.source, t.destination, t.departure, t.bus_id, t.created_at, t.updated_at
		FROM tickets tk
		JOIN trips t ON t.id = tk.trip_id
		WHERE tk.order_id = ANY($1)
		ORDER BY tk.trip_id, tk.seat`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tk domain.Ticket
		var trip domain.Trip
		if err := rows.Scan(&tk.ID, &tk.Seat, &tk.TripID, &tk.OrderID,
			&trip.ID, &trip.Source, &trip.Destination, &trip.Departure, &trip.BusID, &trip.CreatedAt, &trip.UpdatedAt); err != nil {
			return nil, err
		}
		tk.Trip = &trip
		byOrder[tk.OrderID] = append(byOrder[tk.OrderID], tk)
	}
	return byOrder, rows.Err()
}

var _ OrderRepository = (*PGOrderRepository)(nil)
