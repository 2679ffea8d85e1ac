package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type RoomHandler struct {
	rooms service.RoomService
}

func NewRoomHandler(rooms service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type roomRequest struct {
	RoomNumber int32            `json:"room_number" validate:"required,gt=0"`
	Floor      int32            `json:"floor" validate:"gte=0"`
	Detail     localizedTextDTO `json:"detail"`
	TypeID     int32            `json:"type_id" validate:"required,gt=0"`
	Status     string           `json:"status" validate:"omitempty,oneof=READY 'NOT READY'"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	room := &domain.Room{
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Detail:     domain.LocalizedText{TH: req.Detail.TH, EN: req.Detail.EN},
		TypeID:     req.TypeID,
		Status:     domain.RoomStatus(req.Status),
	}
	if err := h.rooms.CreateRoom(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	room, err := h.rooms.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req roomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	room := &domain.Room{
		ID:         id,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Detail:     domain.LocalizedText{TH: req.Detail.TH, EN: req.Detail.EN},
		TypeID:     req.TypeID,
		Status:     domain.RoomStatus(req.Status),
	}
	if err := h.rooms.UpdateRoom(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rooms.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type roomTypeRequest struct {
	Name localizedTextDTO `json:"name"`
}

func (h *RoomHandler) CreateRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name.TH == "" && req.Name.EN == "" {
		writeError(w, domain.BadRequestError("room type name is required in at least one language"))
		return
	}

	roomType := &domain.RoomType{Name: domain.LocalizedText{TH: req.Name.TH, EN: req.Name.EN}}
	if err := h.rooms.CreateRoomType(r.Context(), roomType); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roomType)
}

func (h *RoomHandler) ListRoomTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.rooms.ListRoomTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *RoomHandler) UpdateRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req roomTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	roomType := &domain.RoomType{ID: id, Name: domain.LocalizedText{TH: req.Name.TH, EN: req.Name.EN}}
	if err := h.rooms.UpdateRoomType(r.Context(), roomType); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomType)
}

func (h *RoomHandler) DeleteRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rooms.DeleteRoomType(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type timeslotRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (h *RoomHandler) CreateTimeslot(w http.ResponseWriter, r *http.Request) {
	var req timeslotRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	slot := &domain.Timeslot{Start: req.Start, End: req.End}
	if err := h.rooms.CreateTimeslot(r.Context(), slot); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (h *RoomHandler) ListTimeslots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.rooms.ListTimeslots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *RoomHandler) DeleteTimeslot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rooms.DeleteTimeslot(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
