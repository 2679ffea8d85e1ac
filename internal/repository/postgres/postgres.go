package postgres

import (
	"database/sql"
	"errors"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"

	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BookRepository
	repository.CategoryRepository
	repository.RoomRepository
	repository.RoomTypeRepository
	repository.TimeslotRepository
	repository.RoomTimeslotRepository
	repository.ReservationRepository
	repository.TransactionRepository
	repository.RenewRepository
	repository.ReversionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		BookRepository:         NewBookRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		RoomRepository:         NewRoomRepository(db),
		RoomTypeRepository:     NewRoomTypeRepository(db),
		TimeslotRepository:     NewTimeslotRepository(db),
		RoomTimeslotRepository: NewRoomTimeslotRepository(db),
		ReservationRepository:  NewReservationRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		RenewRepository:        NewRenewRepository(db),
		ReversionRepository:    NewReversionRepository(db),
	}
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// mapError translates driver errors into the domain taxonomy. Duplicate-key
// errors surface as Conflict, never swallowed; foreign-key violations are
// Conflict too (deleting a parent with live references is blocked).
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation:
			return domain.ErrConflict
		}
	}
	return err
}
