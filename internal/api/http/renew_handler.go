package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type RenewHandler struct {
	renewals service.RenewalService
}

func NewRenewHandler(renewals service.RenewalService) *RenewHandler {
	return &RenewHandler{renewals: renewals}
}

type createRenewRequest struct {
	TransactionID int32 `json:"transaction_id" validate:"required,gt=0"`
}

func (h *RenewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRenewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	renew, err := h.renewals.Request(r.Context(), req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renew)
}

func (h *RenewHandler) List(w http.ResponseWriter, r *http.Request) {
	renews, err := h.renewals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renews)
}

type decideRenewRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

func (h *RenewHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req decideRenewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	renew, err := h.renewals.Decide(r.Context(), id, domain.RenewStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renew)
}
