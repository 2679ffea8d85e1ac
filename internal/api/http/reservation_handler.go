package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type createReservationRequest struct {
	RoomID     int32 `json:"room_id" validate:"required,gt=0"`
	TimeslotID int32 `json:"timeslot_id" validate:"required,gt=0"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	reservation, err := h.reservations.Create(r.Context(), claims.UserID, req.RoomID, req.TimeslotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if claims.Role != string(domain.UserRoleAdmin) && reservation.UserID != claims.UserID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not your reservation"})
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// List returns the caller's reservations. Admins may pass ?user= to inspect
// someone else's, or ?user=0 for everyone's.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	userID := claims.UserID
	if claims.Role == string(domain.UserRoleAdmin) && r.URL.Query().Has("user") {
		userID = queryInt32(r, "user", 0)
	}

	reservations, err := h.reservations.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

type updateReservationRequest struct {
	Type string `json:"type" validate:"required,oneof=confirmed cancelled"`
}

// Update is the lifecycle endpoint: type=confirmed or type=cancelled. Both
// are valid only while the reservation is PENDING. Confirmation is the staff
// checking the user in, so it is admin-only; owners may cancel their own.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateReservationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	current, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	claims := ClaimsFromContext(r.Context())
	isAdmin := claims.Role == string(domain.UserRoleAdmin)

	var reservation *domain.Reservation
	if req.Type == "confirmed" {
		if !isAdmin {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		reservation, err = h.reservations.Confirm(r.Context(), id)
	} else {
		if !isAdmin && current.UserID != claims.UserID {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "not your reservation"})
			return
		}
		reservation, err = h.reservations.Cancel(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reservations.AdminDelete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
