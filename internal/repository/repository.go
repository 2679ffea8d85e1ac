package repository

import (
	"context"
	"time"

	"unilib-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	List(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error

	// DecrementQuantity atomically decrements quantity by 1 only while it is
	// still positive; returns the new count or domain.ErrConflict when the
	// guard fails. IncrementQuantity is the unconditional inverse.
	DecrementQuantity(ctx context.Context, id int32) (int32, error)
	IncrementQuantity(ctx context.Context, id int32) (int32, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int32) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int32) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int32) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int32) error
}

type RoomTypeRepository interface {
	Create(ctx context.Context, roomType *domain.RoomType) error
	GetByID(ctx context.Context, id int32) (*domain.RoomType, error)
	List(ctx context.Context) ([]domain.RoomType, error)
	Update(ctx context.Context, roomType *domain.RoomType) error
	Delete(ctx context.Context, id int32) error
}

type TimeslotRepository interface {
	Create(ctx context.Context, slot *domain.Timeslot) error
	GetByID(ctx context.Context, id int32) (*domain.Timeslot, error)
	List(ctx context.Context) ([]domain.Timeslot, error)
	Delete(ctx context.Context, id int32) error
}

type RoomTimeslotRepository interface {
	// GetOrCreate returns the row for (roomID, timeslotID), materializing it
	// as FREE on first reference.
	GetOrCreate(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error)
	Get(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error)
	GetByID(ctx context.Context, id int32) (*domain.RoomTimeslot, error)
	List(ctx context.Context) ([]domain.RoomTimeslot, error)

	// UpdateStatusIf is a compare-and-swap on the pair's status: the write
	// applies only while the persisted status still equals from, otherwise
	// domain.ErrConflict. This is what makes slot transitions atomic per pair.
	UpdateStatusIf(ctx context.Context, id int32, from, to domain.SlotStatus) error
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	List(ctx context.Context, userID int32) ([]domain.Reservation, error)
	ListActiveByRoom(ctx context.Context, roomID int32) ([]domain.Reservation, error)
	// UpdateStateIf applies the state change only while the persisted state
	// still equals from; otherwise domain.ErrConflict.
	UpdateStateIf(ctx context.Context, id int32, from, to domain.ReservationState) error
	Delete(ctx context.Context, id int32) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	List(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Transaction, int32, error)
	ListActiveByBook(ctx context.Context, bookID int32) ([]domain.Transaction, error)
	// MarkReturned flips BORROW to RETURN and stamps returnDate, guarded on
	// the current status still being BORROW; domain.ErrConflict otherwise.
	MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error
	UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	ListDueSoon(ctx context.Context, from, to time.Time) ([]domain.Transaction, error)
}

type RenewRepository interface {
	Create(ctx context.Context, renew *domain.Renew) error
	GetByID(ctx context.Context, id int32) (*domain.Renew, error)
	List(ctx context.Context) ([]domain.Renew, error)
	HasPendingForTransaction(ctx context.Context, transactionID int32) (bool, error)
	// Decide moves REQUEST to the given terminal status, guarded on the
	// current status still being REQUEST; domain.ErrConflict otherwise.
	Decide(ctx context.Context, id int32, status domain.RenewStatus, decidedAt time.Time) error
}

type ReversionRepository interface {
	Create(ctx context.Context, rev *domain.ScheduledReversion) error
	GetByKey(ctx context.Context, key string) (*domain.ScheduledReversion, error)
	// ListDue returns unapplied reversions with fire_at <= now. ListPending
	// returns all unapplied reversions regardless of fire time.
	ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledReversion, error)
	ListPending(ctx context.Context) ([]domain.ScheduledReversion, error)
	// MarkApplied is guarded on the row not being applied yet, so a timer
	// firing and a sweep racing over the same key apply at most once.
	MarkApplied(ctx context.Context, id int32) error
	DeleteByKey(ctx context.Context, key string) error
}
