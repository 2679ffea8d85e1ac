package postgres

import (
	"context"
	"database/sql"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type roomRepository struct {
	db *sql.DB
}

func NewRoomRepository(db *sql.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `INSERT INTO rooms (room_number, floor, detail_th, detail_en, type_id, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		room.RoomNumber, room.Floor, room.Detail.TH, room.Detail.EN, room.TypeID, room.Status).Scan(&room.ID)
	return mapError(err)
}

func (r *roomRepository) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	room := &domain.Room{}
	query := `SELECT id, room_number, floor, detail_th, detail_en, type_id, status FROM rooms WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID, &room.RoomNumber, &room.Floor, &room.Detail.TH, &room.Detail.EN, &room.TypeID, &room.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return room, nil
}

func (r *roomRepository) List(ctx context.Context) ([]domain.Room, error) {
	query := `SELECT id, room_number, floor, detail_th, detail_en, type_id, status FROM rooms ORDER BY room_number`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Floor, &room.Detail.TH, &room.Detail.EN, &room.TypeID, &room.Status); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `UPDATE rooms SET room_number=$1, floor=$2, detail_th=$3, detail_en=$4, type_id=$5, status=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query,
		room.RoomNumber, room.Floor, room.Detail.TH, room.Detail.EN, room.TypeID, room.Status, room.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (r *roomRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

type roomTypeRepository struct {
	db *sql.DB
}

func NewRoomTypeRepository(db *sql.DB) repository.RoomTypeRepository {
	return &roomTypeRepository{db: db}
}

func (r *roomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	err := r.db.QueryRowContext(ctx, `INSERT INTO room_types (name_th, name_en) VALUES ($1, $2) RETURNING id`,
		rt.Name.TH, rt.Name.EN).Scan(&rt.ID)
	return mapError(err)
}

func (r *roomTypeRepository) GetByID(ctx context.Context, id int32) (*domain.RoomType, error) {
	rt := &domain.RoomType{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name_th, name_en FROM room_types WHERE id = $1`, id).
		Scan(&rt.ID, &rt.Name.TH, &rt.Name.EN)
	if err != nil {
		return nil, mapError(err)
	}
	return rt, nil
}

func (r *roomTypeRepository) List(ctx context.Context) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name_th, name_en FROM room_types ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var types []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name.TH, &rt.Name.EN); err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}

func (r *roomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	res, err := r.db.ExecContext(ctx, `UPDATE room_types SET name_th=$1, name_en=$2 WHERE id=$3`,
		rt.Name.TH, rt.Name.EN, rt.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (r *roomTypeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}
