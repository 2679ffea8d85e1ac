package http

import (
	"net/http"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

type BookHandler struct {
	catalog service.CatalogService
}

func NewBookHandler(catalog service.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

type localizedTextDTO struct {
	TH string `json:"th"`
	EN string `json:"en"`
}

type bookRequest struct {
	Name        localizedTextDTO `json:"name"`
	Description localizedTextDTO `json:"description"`
	ImageURL    string           `json:"image_url" validate:"omitempty,url"`
	CategoryID  int32            `json:"category_id" validate:"required,gt=0"`
	Status      string           `json:"status" validate:"omitempty,oneof=READY 'NOT READY'"`
	Quantity    int32            `json:"quantity" validate:"gte=0"`
}

type listResponse struct {
	Items interface{} `json:"items"`
	Total int32       `json:"total"`
	Page  int32       `json:"page"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name.TH == "" && req.Name.EN == "" {
		writeError(w, domain.BadRequestError("book name is required in at least one language"))
		return
	}

	book := &domain.Book{
		Name:        domain.LocalizedText{TH: req.Name.TH, EN: req.Name.EN},
		Description: domain.LocalizedText{TH: req.Description.TH, EN: req.Description.EN},
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Status:      domain.BookStatus(req.Status),
		Quantity:    req.Quantity,
	}
	if err := h.catalog.AddBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	book, err := h.catalog.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID := queryInt32(r, "category", 0)
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	books, total, err := h.catalog.ListBooks(r.Context(), categoryID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: books, Total: total, Page: page})
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req bookRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateBody(&req); err != nil {
		writeError(w, err)
		return
	}

	book := &domain.Book{
		ID:          id,
		Name:        domain.LocalizedText{TH: req.Name.TH, EN: req.Name.EN},
		Description: domain.LocalizedText{TH: req.Description.TH, EN: req.Description.EN},
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Status:      domain.BookStatus(req.Status),
		Quantity:    req.Quantity,
	}
	if err := h.catalog.UpdateBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.catalog.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
