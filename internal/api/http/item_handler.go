package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"localloop-backend/internal/service"
)

type ItemHandler struct {
	items service.ItemService
}

func NewItemHandler(items service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func (h *ItemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/items", h.Create).Methods("POST")
	router.HandleFunc("/items", h.Search).Methods("GET")
	router.HandleFunc("/items/mine", h.ListMine).Methods("GET")
	router.HandleFunc("/items/nearby", h.Nearby).Methods("GET")
	router.HandleFunc("/items/{id}", h.Get).Methods("GET")
	router.HandleFunc("/items/{id}", h.Update).Methods("PUT")
	router.HandleFunc("/items/{id}", h.Delete).Methods("DELETE")
}

type itemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	ZipCode     string   `json:"zip_code"`
}

func (r itemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Images:      r.Images,
		ZipCode:     r.ZipCode,
	}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.items.CreateItem(r.Context(), userID(r), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.items.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.items.UpdateItem(r.Context(), userID(r), id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.items.DeleteItem(r.Context(), userID(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ItemHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListMyItems(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)

	items, total, err := h.items.SearchItems(r.Context(), q.Get("q"), q.Get("category"), maxPrice, int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func (h *ItemHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	radius, _ := strconv.ParseFloat(q.Get("radius_km"), 64)

	nearby, err := h.items.NearbyItems(r.Context(), q.Get("zip"), radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nearby)
}
