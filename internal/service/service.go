package service

import (
	"context"
	"time"

	"unilib-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, string, error) // access, refresh
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type CatalogService interface {
	AddBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	ListBooks(ctx context.Context, categoryID, page, pageSize int32) ([]domain.Book, int32, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int32) error

	CreateCategory(ctx context.Context, category *domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int32) error
}

type RoomService interface {
	CreateRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, id int32) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, room *domain.Room) error
	DeleteRoom(ctx context.Context, id int32) error

	CreateRoomType(ctx context.Context, roomType *domain.RoomType) error
	ListRoomTypes(ctx context.Context) ([]domain.RoomType, error)
	UpdateRoomType(ctx context.Context, roomType *domain.RoomType) error
	DeleteRoomType(ctx context.Context, id int32) error

	CreateTimeslot(ctx context.Context, slot *domain.Timeslot) error
	ListTimeslots(ctx context.Context) ([]domain.Timeslot, error)
	DeleteTimeslot(ctx context.Context, id int32) error
}

// AvailabilityService is the read model behind the reservation grid plus the
// admin's manual per-pair status override. Both go through the cyclic slot
// state machine.
type AvailabilityService interface {
	GetGrid(ctx context.Context, roomIDs, timeslotIDs []int32) ([]domain.GridCell, error)
	SetStatus(ctx context.Context, roomID, timeslotID int32, target domain.SlotStatus) (*domain.RoomTimeslot, error)
	// SetStatusByID is SetStatus addressed by an existing row's id.
	SetStatusByID(ctx context.Context, id int32, target domain.SlotStatus) (*domain.RoomTimeslot, error)
}

type ReservationService interface {
	Create(ctx context.Context, userID, roomID, timeslotID int32) (*domain.Reservation, error)
	Get(ctx context.Context, id int32) (*domain.Reservation, error)
	List(ctx context.Context, userID int32) ([]domain.Reservation, error)
	Confirm(ctx context.Context, id int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int32) (*domain.Reservation, error)
	// AdminDelete removes the record outright, freeing the slot if the
	// reservation still held it. Lifecycle checks are bypassed.
	AdminDelete(ctx context.Context, id int32) error

	// ExpireHold and ExpireUsage are the reversion actions. Each re-reads
	// current state and becomes a logged no-op when the state has advanced.
	ExpireHold(ctx context.Context, reservationID int32) (bool, error)
	ExpireUsage(ctx context.Context, reservationID int32) (bool, error)
}

type TransactionService interface {
	// Borrow creates a transaction with server-assigned BORROW status.
	// clientStatus is what the caller sent; anything other than empty or
	// BORROW is rejected.
	Borrow(ctx context.Context, userID, bookID int32, clientStatus string) (*domain.Transaction, error)
	Get(ctx context.Context, id int32) (*domain.Transaction, error)
	List(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Transaction, int32, error)
	// Update drives the BORROW -> RETURN transition. returnDate may not
	// accompany a BORROW status.
	Update(ctx context.Context, id int32, newStatus domain.TransactionStatus, returnDate *time.Time) (*domain.Transaction, error)
}

type RenewalService interface {
	Request(ctx context.Context, transactionID int32) (*domain.Renew, error)
	List(ctx context.Context) ([]domain.Renew, error)
	Decide(ctx context.Context, renewID int32, decision domain.RenewStatus) (*domain.Renew, error)
}

// ReversionScheduler registers durable one-shot reversions. Registered
// actions re-validate state at fire time; Cancel exists for callers that can
// prove the guard is no longer needed, but a fired-but-superseded reversion
// is always safe (it logs and does nothing).
type ReversionScheduler interface {
	ScheduleHoldExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error)
	ScheduleUsageExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error)
	Cancel(ctx context.Context, key string) error
	// SweepDue fires every persisted reversion whose time has passed; the
	// cron job calls this so reversions survive process restarts.
	SweepDue(ctx context.Context) (int, error)
}

type UserService interface {
	Get(ctx context.Context, id int32) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
}

type EmailService interface {
	SendRenewDecision(ctx context.Context, email, username string, approved bool, dueDate time.Time) error
	SendDueReminder(ctx context.Context, email, username, bookName string, dueDate time.Time) error
	SendOverdueNotice(ctx context.Context, email, username, bookName string, dueDate time.Time) error
}
