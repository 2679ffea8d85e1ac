package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/service"
)

type reservationFixture struct {
	resRepo   *MockReservationRepo
	slotRepo  *MockRoomTimeslotRepo
	roomRepo  *MockRoomRepo
	tsRepo    *MockTimeslotRepo
	userRepo  *MockUserRepo
	scheduler *MockReversionScheduler
	svc       service.ReservationService
}

func newReservationFixture() *reservationFixture {
	f := &reservationFixture{
		resRepo:   new(MockReservationRepo),
		slotRepo:  new(MockRoomTimeslotRepo),
		roomRepo:  new(MockRoomRepo),
		tsRepo:    new(MockTimeslotRepo),
		userRepo:  new(MockUserRepo),
		scheduler: new(MockReversionScheduler),
	}
	f.svc = service.NewReservationService(
		f.resRepo, f.slotRepo, f.roomRepo, f.tsRepo, f.userRepo,
		f.scheduler, keylock.New(), 15, 60)
	return f
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()
	userID, roomID, timeslotID := int32(1), int32(2), int32(3)
	room := &domain.Room{ID: roomID, Status: domain.RoomStatusReady}
	slot := &domain.RoomTimeslot{ID: 7, RoomID: roomID, TimeslotID: timeslotID, Status: domain.SlotStatusFree}

	t.Run("Success reserves the slot and schedules the hold expiry", func(t *testing.T) {
		f := newReservationFixture()
		f.roomRepo.On("GetByID", ctx, roomID).Return(room, nil)
		f.tsRepo.On("GetByID", ctx, timeslotID).Return(&domain.Timeslot{ID: timeslotID}, nil)
		f.userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
		f.slotRepo.On("GetOrCreate", ctx, roomID, timeslotID).Return(slot, nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusFree, domain.SlotStatusReserved).Return(nil)
		f.resRepo.On("Create", ctx, mock.AnythingOfType("*domain.Reservation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Reservation).ID = 11
			}).Return(nil)
		f.scheduler.On("ScheduleHoldExpiry", ctx, int32(11), 15*time.Minute).Return("hold:11", nil)

		reservation, err := f.svc.Create(ctx, userID, roomID, timeslotID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatePending, reservation.State)
		assert.NotNil(t, reservation.DueTime)
		assert.WithinDuration(t, reservation.ReserveTime.Add(15*time.Minute), *reservation.DueTime, time.Second)
		f.scheduler.AssertCalled(t, "ScheduleHoldExpiry", ctx, int32(11), 15*time.Minute)
	})

	t.Run("Slot already reserved is a conflict", func(t *testing.T) {
		f := newReservationFixture()
		taken := &domain.RoomTimeslot{ID: 7, RoomID: roomID, TimeslotID: timeslotID, Status: domain.SlotStatusReserved}
		f.roomRepo.On("GetByID", ctx, roomID).Return(room, nil)
		f.tsRepo.On("GetByID", ctx, timeslotID).Return(&domain.Timeslot{ID: timeslotID}, nil)
		f.userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
		f.slotRepo.On("GetOrCreate", ctx, roomID, timeslotID).Return(taken, nil)

		reservation, err := f.svc.Create(ctx, userID, roomID, timeslotID)
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, domain.ErrConflict)
		f.resRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Room not ready is a conflict", func(t *testing.T) {
		f := newReservationFixture()
		down := &domain.Room{ID: roomID, Status: domain.RoomStatusNotReady}
		f.roomRepo.On("GetByID", ctx, roomID).Return(down, nil)

		reservation, err := f.svc.Create(ctx, userID, roomID, timeslotID)
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Missing room is not found", func(t *testing.T) {
		f := newReservationFixture()
		f.roomRepo.On("GetByID", ctx, roomID).Return(nil, domain.NotFoundError("room", roomID))

		reservation, err := f.svc.Create(ctx, userID, roomID, timeslotID)
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationService_Confirm(t *testing.T) {
	ctx := context.Background()
	resID := int32(11)
	pending := func() *domain.Reservation {
		return &domain.Reservation{
			ID: resID, RoomID: 2, TimeslotID: 3, UserID: 1,
			State: domain.ReservationStatePending, ReserveTime: time.Now(),
		}
	}

	t.Run("Success moves slot to IN USE and schedules usage expiry", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := pending()
		confirmed.State = domain.ReservationStateConfirmed
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusReserved}

		f.resRepo.On("GetByID", ctx, resID).Return(pending(), nil).Once()
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)
		f.resRepo.On("UpdateStateIf", ctx, resID, domain.ReservationStatePending, domain.ReservationStateConfirmed).Return(nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusInUse).Return(nil)
		f.scheduler.On("Cancel", ctx, "hold:11").Return(nil)
		f.scheduler.On("ScheduleUsageExpiry", ctx, resID, time.Hour).Return("usage:11", nil)
		f.resRepo.On("GetByID", ctx, resID).Return(confirmed, nil)

		reservation, err := f.svc.Confirm(ctx, resID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStateConfirmed, reservation.State)
		f.scheduler.AssertCalled(t, "Cancel", ctx, "hold:11")
		f.scheduler.AssertCalled(t, "ScheduleUsageExpiry", ctx, resID, time.Hour)
	})

	t.Run("Confirming a cancelled reservation is an invalid transition", func(t *testing.T) {
		f := newReservationFixture()
		cancelled := pending()
		cancelled.State = domain.ReservationStateCancelled
		f.resRepo.On("GetByID", ctx, resID).Return(cancelled, nil)

		reservation, err := f.svc.Confirm(ctx, resID)
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.slotRepo.AssertNotCalled(t, "UpdateStatusIf", ctx, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()
	resID := int32(11)
	pending := &domain.Reservation{
		ID: resID, RoomID: 2, TimeslotID: 3, UserID: 1,
		State: domain.ReservationStatePending, ReserveTime: time.Now(),
	}

	t.Run("Success frees the slot", func(t *testing.T) {
		f := newReservationFixture()
		cancelled := *pending
		cancelled.State = domain.ReservationStateCancelled
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusReserved}

		f.resRepo.On("GetByID", ctx, resID).Return(pending, nil).Once()
		f.resRepo.On("UpdateStateIf", ctx, resID, domain.ReservationStatePending, domain.ReservationStateCancelled).Return(nil)
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusFree).Return(nil)
		f.scheduler.On("Cancel", ctx, "hold:11").Return(nil)
		f.resRepo.On("GetByID", ctx, resID).Return(&cancelled, nil)

		reservation, err := f.svc.Cancel(ctx, resID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStateCancelled, reservation.State)
	})

	t.Run("Cancelling a confirmed reservation is an invalid transition", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := *pending
		confirmed.State = domain.ReservationStateConfirmed
		f.resRepo.On("GetByID", ctx, resID).Return(&confirmed, nil)

		reservation, err := f.svc.Cancel(ctx, resID)
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestReservationService_ExpireHold(t *testing.T) {
	ctx := context.Background()
	resID := int32(11)

	t.Run("Pending reservation is cancelled and the slot freed", func(t *testing.T) {
		f := newReservationFixture()
		pending := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStatePending}
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusReserved}

		f.resRepo.On("GetByID", ctx, resID).Return(pending, nil)
		f.resRepo.On("UpdateStateIf", ctx, resID, domain.ReservationStatePending, domain.ReservationStateCancelled).Return(nil)
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusFree).Return(nil)

		applied, err := f.svc.ExpireHold(ctx, resID)
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("Confirmed in the meantime means the reversion is superseded", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStateConfirmed}

		f.resRepo.On("GetByID", ctx, resID).Return(confirmed, nil)
		f.resRepo.On("UpdateStateIf", ctx, resID, domain.ReservationStatePending, domain.ReservationStateCancelled).
			Return(domain.ConflictError("state moved past"))

		applied, err := f.svc.ExpireHold(ctx, resID)
		assert.NoError(t, err)
		assert.False(t, applied)
		f.slotRepo.AssertNotCalled(t, "UpdateStatusIf", ctx, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReservationService_ExpireUsage(t *testing.T) {
	ctx := context.Background()
	resID := int32(11)

	t.Run("Slot in use reverts to free", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStateConfirmed}
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusInUse}

		f.resRepo.On("GetByID", ctx, resID).Return(confirmed, nil)
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusInUse, domain.SlotStatusFree).Return(nil)

		applied, err := f.svc.ExpireUsage(ctx, resID)
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("Slot already freed means nothing to apply", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStateConfirmed}
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusFree}

		f.resRepo.On("GetByID", ctx, resID).Return(confirmed, nil)
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)

		applied, err := f.svc.ExpireUsage(ctx, resID)
		assert.NoError(t, err)
		assert.False(t, applied)
	})
}

func TestReservationService_AdminDelete(t *testing.T) {
	ctx := context.Background()
	resID := int32(11)

	t.Run("Deleting a confirmed reservation frees the in-use slot", func(t *testing.T) {
		f := newReservationFixture()
		confirmed := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStateConfirmed}
		slot := &domain.RoomTimeslot{ID: 7, RoomID: 2, TimeslotID: 3, Status: domain.SlotStatusInUse}

		f.resRepo.On("GetByID", ctx, resID).Return(confirmed, nil)
		f.resRepo.On("Delete", ctx, resID).Return(nil)
		f.slotRepo.On("Get", ctx, int32(2), int32(3)).Return(slot, nil)
		f.slotRepo.On("UpdateStatusIf", ctx, slot.ID, domain.SlotStatusInUse, domain.SlotStatusFree).Return(nil)
		f.scheduler.On("Cancel", ctx, "hold:11").Return(nil)
		f.scheduler.On("Cancel", ctx, "usage:11").Return(nil)

		err := f.svc.AdminDelete(ctx, resID)
		assert.NoError(t, err)
		f.slotRepo.AssertCalled(t, "UpdateStatusIf", ctx, slot.ID, domain.SlotStatusInUse, domain.SlotStatusFree)
	})

	t.Run("Deleting a cancelled reservation leaves the slot alone", func(t *testing.T) {
		f := newReservationFixture()
		cancelled := &domain.Reservation{ID: resID, RoomID: 2, TimeslotID: 3, State: domain.ReservationStateCancelled}

		f.resRepo.On("GetByID", ctx, resID).Return(cancelled, nil)
		f.resRepo.On("Delete", ctx, resID).Return(nil)
		f.scheduler.On("Cancel", ctx, mock.AnythingOfType("string")).Return(nil)

		err := f.svc.AdminDelete(ctx, resID)
		assert.NoError(t, err)
		f.slotRepo.AssertNotCalled(t, "Get", ctx, mock.Anything, mock.Anything)
	})
}
