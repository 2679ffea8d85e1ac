package service

import (
	"context"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type reservationService struct {
	resRepo     repository.ReservationRepository
	slotRepo    repository.RoomTimeslotRepository
	roomRepo    repository.RoomRepository
	tsRepo      repository.TimeslotRepository
	userRepo    repository.UserRepository
	scheduler   ReversionScheduler
	locks       *keylock.KeyLock
	holdWindow  time.Duration
	usageWindow time.Duration
}

func NewReservationService(
	resRepo repository.ReservationRepository,
	slotRepo repository.RoomTimeslotRepository,
	roomRepo repository.RoomRepository,
	tsRepo repository.TimeslotRepository,
	userRepo repository.UserRepository,
	scheduler ReversionScheduler,
	locks *keylock.KeyLock,
	pendingHoldMinutes, usageWindowMinutes int,
) ReservationService {
	return &reservationService{
		resRepo:     resRepo,
		slotRepo:    slotRepo,
		roomRepo:    roomRepo,
		tsRepo:      tsRepo,
		userRepo:    userRepo,
		scheduler:   scheduler,
		locks:       locks,
		holdWindow:  time.Duration(pendingHoldMinutes) * time.Minute,
		usageWindow: time.Duration(usageWindowMinutes) * time.Minute,
	}
}

// Create claims a (room, timeslot) pair. The slot lock plus the conditional
// status write make the claim atomic: a second concurrent create observes
// the post-transition status and is rejected, it cannot race past the check.
func (s *reservationService) Create(ctx context.Context, userID, roomID, timeslotID int32) (*domain.Reservation, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("room lookup: %w", err)
	}
	if room.Status != domain.RoomStatusReady {
		return nil, domain.ConflictError("room is not ready for reservation")
	}
	if _, err := s.tsRepo.GetByID(ctx, timeslotID); err != nil {
		return nil, fmt.Errorf("timeslot lookup: %w", err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	key := slotKey(roomID, timeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	slot, err := s.slotRepo.GetOrCreate(ctx, roomID, timeslotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotStatusFree {
		return nil, domain.ConflictError("room is not available for this timeslot")
	}
	if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusFree, domain.SlotStatusReserved); err != nil {
		return nil, err
	}

	now := time.Now()
	due := now.Add(s.holdWindow)
	reservation := &domain.Reservation{
		RoomID:      roomID,
		TimeslotID:  timeslotID,
		UserID:      userID,
		State:       domain.ReservationStatePending,
		ReserveTime: now,
		DueTime:     &due,
	}
	if err := s.resRepo.Create(ctx, reservation); err != nil {
		// Free the slot again so a failed insert does not strand it.
		if revErr := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusFree); revErr != nil {
			logger.Error("Failed to release slot after create failure",
				"slot_id", slot.ID, "error", revErr)
		}
		return nil, err
	}

	if _, err := s.scheduler.ScheduleHoldExpiry(ctx, reservation.ID, s.holdWindow); err != nil {
		logger.Error("Failed to schedule hold expiry", "reservation_id", reservation.ID, "error", err)
	}

	logger.Info("Reservation created", "reservation_id", reservation.ID,
		"room_id", roomID, "timeslot_id", timeslotID, "user_id", userID)
	return reservation, nil
}

func (s *reservationService) Get(ctx context.Context, id int32) (*domain.Reservation, error) {
	return s.resRepo.GetByID(ctx, id)
}

func (s *reservationService) List(ctx context.Context, userID int32) ([]domain.Reservation, error) {
	return s.resRepo.List(ctx, userID)
}

// Confirm moves PENDING to CONFIRMED, the slot to IN USE, and arms the
// usage-window reversion. Valid only from PENDING; everything else leaves
// all state untouched.
func (s *reservationService) Confirm(ctx context.Context, id int32) (*domain.Reservation, error) {
	reservation, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reservation lookup: %w", err)
	}
	if reservation.State != domain.ReservationStatePending {
		return nil, domain.TransitionError("reservation",
			string(reservation.State), string(domain.ReservationStateConfirmed))
	}

	key := slotKey(reservation.RoomID, reservation.TimeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	slot, err := s.slotRepo.Get(ctx, reservation.RoomID, reservation.TimeslotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotStatusReserved {
		return nil, domain.TransitionError("room timeslot",
			string(slot.Status), string(domain.SlotStatusInUse))
	}

	// Claim the reservation first; the slot write follows under the same
	// lock, so no caller can observe the half-applied pair.
	if err := s.resRepo.UpdateStateIf(ctx, id, domain.ReservationStatePending, domain.ReservationStateConfirmed); err != nil {
		return nil, err
	}
	if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusInUse); err != nil {
		return nil, err
	}

	// The pending hold no longer guards anything.
	if err := s.scheduler.Cancel(ctx, holdKey(id)); err != nil {
		logger.Warn("Failed to cancel hold expiry", "reservation_id", id, "error", err)
	}
	if _, err := s.scheduler.ScheduleUsageExpiry(ctx, id, s.usageWindow); err != nil {
		logger.Error("Failed to schedule usage expiry", "reservation_id", id, "error", err)
	}

	logger.Info("Reservation confirmed", "reservation_id", id,
		"room_id", reservation.RoomID, "timeslot_id", reservation.TimeslotID)
	return s.resRepo.GetByID(ctx, id)
}

// Cancel moves PENDING to CANCELLED and frees the slot. This is also the
// hold-expiry path, so it is valid only from PENDING.
func (s *reservationService) Cancel(ctx context.Context, id int32) (*domain.Reservation, error) {
	reservation, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reservation lookup: %w", err)
	}
	if reservation.State != domain.ReservationStatePending {
		return nil, domain.TransitionError("reservation",
			string(reservation.State), string(domain.ReservationStateCancelled))
	}

	key := slotKey(reservation.RoomID, reservation.TimeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.resRepo.UpdateStateIf(ctx, id, domain.ReservationStatePending, domain.ReservationStateCancelled); err != nil {
		return nil, err
	}
	slot, err := s.slotRepo.Get(ctx, reservation.RoomID, reservation.TimeslotID)
	if err == nil {
		if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusFree); err != nil {
			logger.Warn("Slot not released on cancel", "slot_id", slot.ID, "error", err)
		}
	}

	if err := s.scheduler.Cancel(ctx, holdKey(id)); err != nil {
		logger.Warn("Failed to cancel hold expiry", "reservation_id", id, "error", err)
	}

	logger.Info("Reservation cancelled", "reservation_id", id)
	return s.resRepo.GetByID(ctx, id)
}

// AdminDelete bypasses lifecycle checks. The slot is freed if the
// reservation still held it in either stage.
func (s *reservationService) AdminDelete(ctx context.Context, id int32) error {
	reservation, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reservation lookup: %w", err)
	}

	key := slotKey(reservation.RoomID, reservation.TimeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.resRepo.Delete(ctx, id); err != nil {
		return err
	}

	if reservation.State == domain.ReservationStatePending || reservation.State == domain.ReservationStateConfirmed {
		if slot, err := s.slotRepo.Get(ctx, reservation.RoomID, reservation.TimeslotID); err == nil {
			from := domain.SlotStatusReserved
			if reservation.State == domain.ReservationStateConfirmed {
				from = domain.SlotStatusInUse
			}
			if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, from, domain.SlotStatusFree); err != nil {
				logger.Warn("Slot not released on admin delete", "slot_id", slot.ID, "error", err)
			}
		}
	}

	_ = s.scheduler.Cancel(ctx, holdKey(id))
	_ = s.scheduler.Cancel(ctx, usageKey(id))

	logger.Info("Reservation deleted by admin", "reservation_id", id)
	return nil
}

// ExpireHold is the hold-window reversion action. It re-reads state at fire
// time and applies nothing when the reservation already left PENDING.
func (s *reservationService) ExpireHold(ctx context.Context, reservationID int32) (bool, error) {
	reservation, err := s.resRepo.GetByID(ctx, reservationID)
	if err != nil {
		return false, err
	}

	key := slotKey(reservation.RoomID, reservation.TimeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.resRepo.UpdateStateIf(ctx, reservationID,
		domain.ReservationStatePending, domain.ReservationStateCancelled); err != nil {
		// Confirmed or cancelled in the meantime: the reversion is stale.
		return false, nil
	}
	if slot, err := s.slotRepo.Get(ctx, reservation.RoomID, reservation.TimeslotID); err == nil {
		if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusReserved, domain.SlotStatusFree); err != nil {
			logger.Warn("Slot not released on hold expiry", "slot_id", slot.ID, "error", err)
		}
	}

	logger.Info("Pending reservation expired", "reservation_id", reservationID)
	return true, nil
}

// ExpireUsage returns the slot to FREE after the usage window. The
// reservation stays CONFIRMED; only the slot reverts.
func (s *reservationService) ExpireUsage(ctx context.Context, reservationID int32) (bool, error) {
	reservation, err := s.resRepo.GetByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if reservation.State != domain.ReservationStateConfirmed {
		return false, nil
	}

	key := slotKey(reservation.RoomID, reservation.TimeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	slot, err := s.slotRepo.Get(ctx, reservation.RoomID, reservation.TimeslotID)
	if err != nil {
		return false, err
	}
	if slot.Status != domain.SlotStatusInUse {
		return false, nil
	}
	if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, domain.SlotStatusInUse, domain.SlotStatusFree); err != nil {
		return false, nil
	}

	logger.Info("Usage window elapsed, slot freed", "reservation_id", reservationID,
		"room_id", reservation.RoomID, "timeslot_id", reservation.TimeslotID)
	return true, nil
}

func slotKey(roomID, timeslotID int32) string {
	return fmt.Sprintf("slot:%d:%d", roomID, timeslotID)
}

func holdKey(reservationID int32) string {
	return fmt.Sprintf("hold:%d", reservationID)
}

func usageKey(reservationID int32) string {
	return fmt.Sprintf("usage:%d", reservationID)
}
