package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type roomTimeslotRepository struct {
	db *sql.DB
}

func NewRoomTimeslotRepository(db *sql.DB) repository.RoomTimeslotRepository {
	return &roomTimeslotRepository{db: db}
}

// GetOrCreate materializes the (room, timeslot) row as FREE on first
// reference. ON CONFLICT returns the existing row, so two concurrent first
// references converge on one row.
func (r *roomTimeslotRepository) GetOrCreate(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error) {
	rt := &domain.RoomTimeslot{}
	query := `INSERT INTO room_timeslots (room_id, timeslot_id, status, updated_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (room_id, timeslot_id) DO UPDATE SET room_id = EXCLUDED.room_id
	          RETURNING id, room_id, timeslot_id, status, updated_on`
	err := r.db.QueryRowContext(ctx, query, roomID, timeslotID, domain.SlotStatusFree, time.Now()).
		Scan(&rt.ID, &rt.RoomID, &rt.TimeslotID, &rt.Status, &rt.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return rt, nil
}

func (r *roomTimeslotRepository) Get(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error) {
	rt := &domain.RoomTimeslot{}
	query := `SELECT id, room_id, timeslot_id, status, updated_on FROM room_timeslots WHERE room_id = $1 AND timeslot_id = $2`
	err := r.db.QueryRowContext(ctx, query, roomID, timeslotID).
		Scan(&rt.ID, &rt.RoomID, &rt.TimeslotID, &rt.Status, &rt.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return rt, nil
}

func (r *roomTimeslotRepository) GetByID(ctx context.Context, id int32) (*domain.RoomTimeslot, error) {
	rt := &domain.RoomTimeslot{}
	query := `SELECT id, room_id, timeslot_id, status, updated_on FROM room_timeslots WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rt.ID, &rt.RoomID, &rt.TimeslotID, &rt.Status, &rt.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return rt, nil
}

func (r *roomTimeslotRepository) List(ctx context.Context) ([]domain.RoomTimeslot, error) {
	query := `SELECT id, room_id, timeslot_id, status, updated_on FROM room_timeslots ORDER BY room_id, timeslot_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []domain.RoomTimeslot
	for rows.Next() {
		var rt domain.RoomTimeslot
		if err := rows.Scan(&rt.ID, &rt.RoomID, &rt.TimeslotID, &rt.Status, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		slots = append(slots, rt)
	}
	return slots, rows.Err()
}

// UpdateStatusIf is the compare-and-swap behind every slot transition. A
// write that finds the status already moved on affects zero rows and
// surfaces as Conflict, so a lost race can never overwrite a newer state.
func (r *roomTimeslotRepository) UpdateStatusIf(ctx context.Context, id int32, from, to domain.SlotStatus) error {
	query := `UPDATE room_timeslots SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
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
		return fmt.Errorf("slot status moved past %q: %w", from, domain.ErrConflict)
	}
	return nil
}
