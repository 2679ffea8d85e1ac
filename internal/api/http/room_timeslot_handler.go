package http

import (
	"net/http"
	"strconv"
	"strings"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type RoomTimeslotHandler struct {
	availability service.AvailabilityService
}

func NewRoomTimeslotHandler(availability service.AvailabilityService) *RoomTimeslotHandler {
	return &RoomTimeslotHandler{availability: availability}
}

// Grid renders the room x timeslot matrix. Optional comma-separated "rooms"
// and "timeslots" query parameters narrow it; unmaterialized pairs come back
// with status "-".
func (h *RoomTimeslotHandler) Grid(w http.ResponseWriter, r *http.Request) {
	roomIDs, err := queryIDList(r.URL.Query().Get("rooms"))
	if err != nil {
		writeError(w, err)
		return
	}
	timeslotIDs, err := queryIDList(r.URL.Query().Get("timeslots"))
	if err != nil {
		writeError(w, err)
		return
	}

	grid, err := h.availability.GetGrid(r.Context(), roomIDs, timeslotIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

type slotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=FREE RESERVED 'IN USE'"`
}

// SetStatus is the admin override for one pair. It still obeys the cyclic
// transition law; jumping a stage returns 409.
func (h *RoomTimeslotHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req slotStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	slot, err := h.availability.SetStatusByID(r.Context(), id, domain.SlotStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func queryIDList(raw string) ([]int32, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int32, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil || id <= 0 {
			return nil, domain.BadRequestError("id lists must be comma-separated positive integers")
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}
