package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, rv *domain.Reservation) error {
	query := `INSERT INTO reservations (room_id, timeslot_id, user_id, state, reserve_time, due_time)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rv.RoomID, rv.TimeslotID, rv.UserID, rv.State, rv.ReserveTime, rv.DueTime).Scan(&rv.ID)
	return mapError(err)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	rv := &domain.Reservation{}
	query := `SELECT id, room_id, timeslot_id, user_id, state, reserve_time, due_time, return_time
	          FROM reservations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rv.ID, &rv.RoomID, &rv.TimeslotID, &rv.UserID, &rv.State, &rv.ReserveTime, &rv.DueTime, &rv.ReturnTime)
	if err != nil {
		return nil, mapError(err)
	}
	return rv, nil
}

func (r *reservationRepository) List(ctx context.Context, userID int32) ([]domain.Reservation, error) {
	query := `SELECT id, room_id, timeslot_id, user_id, state, reserve_time, due_time, return_time FROM reservations`
	args := []interface{}{}
	if userID != 0 {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY reserve_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *reservationRepository) ListActiveByRoom(ctx context.Context, roomID int32) ([]domain.Reservation, error) {
	query := `SELECT id, room_id, timeslot_id, user_id, state, reserve_time, due_time, return_time
	          FROM reservations WHERE room_id = $1 AND state IN ($2, $3)`
	rows, err := r.db.QueryContext(ctx, query, roomID,
		domain.ReservationStatePending, domain.ReservationStateConfirmed)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

// UpdateStateIf applies the state change only while the persisted state is
// still from; a reservation that already advanced surfaces as Conflict.
func (r *reservationRepository) UpdateStateIf(ctx context.Context, id int32, from, to domain.ReservationState) error {
	query := `UPDATE reservations SET state = $1, return_time = CASE WHEN $1 = $4 THEN $5 ELSE return_time END
	          WHERE id = $2 AND state = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from, domain.ReservationStateCancelled, time.Now())
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("reservation state moved past %q: %w", from, domain.ErrConflict)
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func scanReservations(rows *sql.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var rv domain.Reservation
		if err := rows.Scan(&rv.ID, &rv.RoomID, &rv.TimeslotID, &rv.UserID, &rv.State,
			&rv.ReserveTime, &rv.DueTime, &rv.ReturnTime); err != nil {
			return nil, err
		}
		reservations = append(reservations, rv)
	}
	return reservations, rows.Err()
}
