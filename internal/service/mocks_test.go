package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) List(ctx context.Context, categoryID, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, categoryID, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) DecrementQuantity(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockBookRepo) IncrementQuantity(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoomRepo
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepo) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *MockRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoomTypeRepo
type MockRoomTypeRepo struct {
	mock.Mock
}

func (m *MockRoomTypeRepo) Create(ctx context.Context, roomType *domain.RoomType) error {
	args := m.Called(ctx, roomType)
	return args.Error(0)
}
func (m *MockRoomTypeRepo) GetByID(ctx context.Context, id int32) (*domain.RoomType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomType), args.Error(1)
}
func (m *MockRoomTypeRepo) List(ctx context.Context) ([]domain.RoomType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RoomType), args.Error(1)
}
func (m *MockRoomTypeRepo) Update(ctx context.Context, roomType *domain.RoomType) error {
	args := m.Called(ctx, roomType)
	return args.Error(0)
}
func (m *MockRoomTypeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTimeslotRepo
type MockTimeslotRepo struct {
	mock.Mock
}

func (m *MockTimeslotRepo) Create(ctx context.Context, slot *domain.Timeslot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
func (m *MockTimeslotRepo) GetByID(ctx context.Context, id int32) (*domain.Timeslot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timeslot), args.Error(1)
}
func (m *MockTimeslotRepo) List(ctx context.Context) ([]domain.Timeslot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Timeslot), args.Error(1)
}
func (m *MockTimeslotRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoomTimeslotRepo
type MockRoomTimeslotRepo struct {
	mock.Mock
}

func (m *MockRoomTimeslotRepo) GetOrCreate(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error) {
	args := m.Called(ctx, roomID, timeslotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomTimeslot), args.Error(1)
}
func (m *MockRoomTimeslotRepo) Get(ctx context.Context, roomID, timeslotID int32) (*domain.RoomTimeslot, error) {
	args := m.Called(ctx, roomID, timeslotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomTimeslot), args.Error(1)
}
func (m *MockRoomTimeslotRepo) GetByID(ctx context.Context, id int32) (*domain.RoomTimeslot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomTimeslot), args.Error(1)
}
func (m *MockRoomTimeslotRepo) List(ctx context.Context) ([]domain.RoomTimeslot, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RoomTimeslot), args.Error(1)
}
func (m *MockRoomTimeslotRepo) UpdateStatusIf(ctx context.Context, id int32, from, to domain.SlotStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) List(ctx context.Context, userID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListActiveByRoom(ctx context.Context, roomID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStateIf(ctx context.Context, id int32, from, to domain.ReservationState) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockReservationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) List(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) ListActiveByBook(ctx context.Context, bookID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error {
	args := m.Called(ctx, id, returnedAt)
	return args.Error(0)
}
func (m *MockTransactionRepo) UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error {
	args := m.Called(ctx, id, dueDate)
	return args.Error(0)
}
func (m *MockTransactionRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockTransactionRepo) ListDueSoon(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockRenewRepo
type MockRenewRepo struct {
	mock.Mock
}

func (m *MockRenewRepo) Create(ctx context.Context, renew *domain.Renew) error {
	args := m.Called(ctx, renew)
	return args.Error(0)
}
func (m *MockRenewRepo) GetByID(ctx context.Context, id int32) (*domain.Renew, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Renew), args.Error(1)
}
func (m *MockRenewRepo) List(ctx context.Context) ([]domain.Renew, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Renew), args.Error(1)
}
func (m *MockRenewRepo) HasPendingForTransaction(ctx context.Context, transactionID int32) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}
func (m *MockRenewRepo) Decide(ctx context.Context, id int32, status domain.RenewStatus, decidedAt time.Time) error {
	args := m.Called(ctx, id, status, decidedAt)
	return args.Error(0)
}

// MockReversionRepo
type MockReversionRepo struct {
	mock.Mock
}

func (m *MockReversionRepo) Create(ctx context.Context, rev *domain.ScheduledReversion) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}
func (m *MockReversionRepo) GetByKey(ctx context.Context, key string) (*domain.ScheduledReversion, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledReversion), args.Error(1)
}
func (m *MockReversionRepo) ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledReversion, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.ScheduledReversion), args.Error(1)
}
func (m *MockReversionRepo) ListPending(ctx context.Context) ([]domain.ScheduledReversion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ScheduledReversion), args.Error(1)
}
func (m *MockReversionRepo) MarkApplied(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockReversionRepo) DeleteByKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockReversionScheduler
type MockReversionScheduler struct {
	mock.Mock
}

func (m *MockReversionScheduler) ScheduleHoldExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error) {
	args := m.Called(ctx, reservationID, delay)
	return args.String(0), args.Error(1)
}
func (m *MockReversionScheduler) ScheduleUsageExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error) {
	args := m.Called(ctx, reservationID, delay)
	return args.String(0), args.Error(1)
}
func (m *MockReversionScheduler) Cancel(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockReversionScheduler) SweepDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRenewDecision(ctx context.Context, email, username string, approved bool, dueDate time.Time) error {
	args := m.Called(ctx, email, username, approved, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendDueReminder(ctx context.Context, email, username, bookName string, dueDate time.Time) error {
	args := m.Called(ctx, email, username, bookName, dueDate)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, username, bookName string, dueDate time.Time) error {
	args := m.Called(ctx, email, username, bookName, dueDate)
	return args.Error(0)
}
