package http

import (
	"net/http"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type TransactionHandler struct {
	transactions service.TransactionService
}

func NewTransactionHandler(transactions service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type createTransactionRequest struct {
	BookID int32 `json:"book_id" validate:"required,gt=0"`
	// Status is optional and, when present, must echo BORROW. The server
	// assigns borrow and due dates itself.
	Status string `json:"status" validate:"omitempty,oneof=BORROW"`
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	txn, err := h.transactions.Borrow(r.Context(), claims.UserID, req.BookID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	txn, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if claims.Role != string(domain.UserRoleAdmin) && txn.UserID != claims.UserID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not your transaction"})
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	userID := claims.UserID
	if claims.Role == string(domain.UserRoleAdmin) && r.URL.Query().Has("user") {
		userID = queryInt32(r, "user", 0)
	}
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	txns, total, err := h.transactions.List(r.Context(), userID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: txns, Total: total, Page: page})
}

type updateTransactionRequest struct {
	Status     string     `json:"status" validate:"required,oneof=BORROW RETURN"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	txn, err := h.transactions.Update(r.Context(), id, domain.TransactionStatus(req.Status), req.ReturnDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}
