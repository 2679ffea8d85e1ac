package service

import (
	"context"
	"fmt"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type availabilityService struct {
	slotRepo repository.RoomTimeslotRepository
	roomRepo repository.RoomRepository
	tsRepo   repository.TimeslotRepository
	locks    *keylock.KeyLock
}

func NewAvailabilityService(
	slotRepo repository.RoomTimeslotRepository,
	roomRepo repository.RoomRepository,
	tsRepo repository.TimeslotRepository,
	locks *keylock.KeyLock,
) AvailabilityService {
	return &availabilityService{
		slotRepo: slotRepo,
		roomRepo: roomRepo,
		tsRepo:   tsRepo,
		locks:    locks,
	}
}

// GetGrid renders the room x timeslot availability matrix. Pairs without a
// materialized row report "-": unassigned, not FREE. Empty roomIDs or
// timeslotIDs means all rooms or all timeslots.
func (s *availabilityService) GetGrid(ctx context.Context, roomIDs, timeslotIDs []int32) ([]domain.GridCell, error) {
	if len(roomIDs) == 0 {
		rooms, err := s.roomRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing rooms: %w", err)
		}
		for _, r := range rooms {
			roomIDs = append(roomIDs, r.ID)
		}
	}
	if len(timeslotIDs) == 0 {
		slots, err := s.tsRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing timeslots: %w", err)
		}
		for _, t := range slots {
			timeslotIDs = append(timeslotIDs, t.ID)
		}
	}

	rows, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing room timeslots: %w", err)
	}
	assigned := make(map[[2]int32]domain.SlotStatus, len(rows))
	for _, row := range rows {
		assigned[[2]int32{row.RoomID, row.TimeslotID}] = row.Status
	}

	grid := make([]domain.GridCell, 0, len(roomIDs)*len(timeslotIDs))
	for _, roomID := range roomIDs {
		for _, timeslotID := range timeslotIDs {
			status := domain.SlotStatusUnassigned
			if st, ok := assigned[[2]int32{roomID, timeslotID}]; ok {
				status = string(st)
			}
			grid = append(grid, domain.GridCell{
				RoomID:     roomID,
				TimeslotID: timeslotID,
				Status:     status,
			})
		}
	}
	return grid, nil
}

// SetStatusByID resolves an existing row and applies SetStatus to its pair.
func (s *availabilityService) SetStatusByID(ctx context.Context, id int32, target domain.SlotStatus) (*domain.RoomTimeslot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, slot.RoomID, slot.TimeslotID, target)
}

// SetStatus is the admin's manual override of one pair's status. The write
// still goes through the cyclic state machine; skipping a stage is rejected
// the same way a normal lifecycle write would be.
func (s *availabilityService) SetStatus(ctx context.Context, roomID, timeslotID int32, target domain.SlotStatus) (*domain.RoomTimeslot, error) {
	switch target {
	case domain.SlotStatusFree, domain.SlotStatusReserved, domain.SlotStatusInUse:
	default:
		return nil, domain.BadRequestError(fmt.Sprintf("unknown slot status %q", target))
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("room lookup: %w", err)
	}
	if _, err := s.tsRepo.GetByID(ctx, timeslotID); err != nil {
		return nil, fmt.Errorf("timeslot lookup: %w", err)
	}

	key := slotKey(roomID, timeslotID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	slot, err := s.slotRepo.GetOrCreate(ctx, roomID, timeslotID)
	if err != nil {
		return nil, err
	}
	if slot.Status == target {
		return slot, nil
	}
	if !domain.ValidSlotTransition(slot.Status, target) {
		return nil, domain.TransitionError("room timeslot", string(slot.Status), string(target))
	}
	if err := s.slotRepo.UpdateStatusIf(ctx, slot.ID, slot.Status, target); err != nil {
		return nil, err
	}

	logger.Info("Slot status set", "room_id", roomID, "timeslot_id", timeslotID,
		"from", slot.Status, "to", target)
	return s.slotRepo.GetByID(ctx, slot.ID)
}
