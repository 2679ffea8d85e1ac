package service

import (
	"context"
	"fmt"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type roomService struct {
	roomRepo     repository.RoomRepository
	roomTypeRepo repository.RoomTypeRepository
	tsRepo       repository.TimeslotRepository
	resRepo      repository.ReservationRepository
}

func NewRoomService(
	roomRepo repository.RoomRepository,
	roomTypeRepo repository.RoomTypeRepository,
	tsRepo repository.TimeslotRepository,
	resRepo repository.ReservationRepository,
) RoomService {
	return &roomService{
		roomRepo:     roomRepo,
		roomTypeRepo: roomTypeRepo,
		tsRepo:       tsRepo,
		resRepo:      resRepo,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, room *domain.Room) error {
	if room.Status == "" {
		room.Status = domain.RoomStatusReady
	}
	if room.Status != domain.RoomStatusReady && room.Status != domain.RoomStatusNotReady {
		return domain.BadRequestError(fmt.Sprintf("unknown room status %q", room.Status))
	}
	if _, err := s.roomTypeRepo.GetByID(ctx, room.TypeID); err != nil {
		return fmt.Errorf("room type lookup: %w", err)
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return err
	}
	logger.Info("Room created", "room_id", room.ID, "room_number", room.RoomNumber)
	return nil
}

func (s *roomService) GetRoom(ctx context.Context, id int32) (*domain.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

func (s *roomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.roomRepo.List(ctx)
}

func (s *roomService) UpdateRoom(ctx context.Context, room *domain.Room) error {
	if room.Status != "" && room.Status != domain.RoomStatusReady && room.Status != domain.RoomStatusNotReady {
		return domain.BadRequestError(fmt.Sprintf("unknown room status %q", room.Status))
	}
	if _, err := s.roomRepo.GetByID(ctx, room.ID); err != nil {
		return err
	}
	if room.TypeID != 0 {
		if _, err := s.roomTypeRepo.GetByID(ctx, room.TypeID); err != nil {
			return fmt.Errorf("room type lookup: %w", err)
		}
	}
	return s.roomRepo.Update(ctx, room)
}

// DeleteRoom refuses while the room has live reservations; deleting it then
// would orphan slots mid-lifecycle.
func (s *roomService) DeleteRoom(ctx context.Context, id int32) error {
	active, err := s.resRepo.ListActiveByRoom(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return domain.ConflictError("room has active reservations")
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Room deleted", "room_id", id)
	return nil
}

func (s *roomService) CreateRoomType(ctx context.Context, roomType *domain.RoomType) error {
	return s.roomTypeRepo.Create(ctx, roomType)
}

func (s *roomService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return s.roomTypeRepo.List(ctx)
}

func (s *roomService) UpdateRoomType(ctx context.Context, roomType *domain.RoomType) error {
	return s.roomTypeRepo.Update(ctx, roomType)
}

// DeleteRoomType relies on the rooms.type_id foreign key to reject deleting
// a type still in use.
func (s *roomService) DeleteRoomType(ctx context.Context, id int32) error {
	return s.roomTypeRepo.Delete(ctx, id)
}

func (s *roomService) CreateTimeslot(ctx context.Context, slot *domain.Timeslot) error {
	if slot.Start == "" || slot.End == "" {
		return domain.BadRequestError("timeslot start and end are required")
	}
	return s.tsRepo.Create(ctx, slot)
}

func (s *roomService) ListTimeslots(ctx context.Context) ([]domain.Timeslot, error) {
	return s.tsRepo.List(ctx)
}

// DeleteTimeslot relies on foreign keys from room_timeslots and reservations
// to reject deleting a slot that is referenced.
func (s *roomService) DeleteTimeslot(ctx context.Context, id int32) error {
	return s.tsRepo.Delete(ctx, id)
}
