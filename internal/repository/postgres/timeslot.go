package postgres

import (
	"context"
	"database/sql"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type timeslotRepository struct {
	db *sql.DB
}

func NewTimeslotRepository(db *sql.DB) repository.TimeslotRepository {
	return &timeslotRepository{db: db}
}

func (r *timeslotRepository) Create(ctx context.Context, slot *domain.Timeslot) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO timeslots (start_time, end_time) VALUES ($1, $2) RETURNING id`,
		slot.Start, slot.End).Scan(&slot.ID)
	return mapError(err)
}

func (r *timeslotRepository) GetByID(ctx context.Context, id int32) (*domain.Timeslot, error) {
	slot := &domain.Timeslot{}
	err := r.db.QueryRowContext(ctx, `SELECT id, start_time, end_time FROM timeslots WHERE id = $1`, id).
		Scan(&slot.ID, &slot.Start, &slot.End)
	if err != nil {
		return nil, mapError(err)
	}
	return slot, nil
}

func (r *timeslotRepository) List(ctx context.Context) ([]domain.Timeslot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, start_time, end_time FROM timeslots ORDER BY start_time`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []domain.Timeslot
	for rows.Next() {
		var slot domain.Timeslot
		if err := rows.Scan(&slot.ID, &slot.Start, &slot.End); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *timeslotRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}
