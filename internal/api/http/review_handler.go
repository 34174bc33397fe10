package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"localloop-backend/internal/service"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions/{id}/reviews", h.Create).Methods("POST")
	router.HandleFunc("/transactions/{id}/reviews", h.ListForTransaction).Methods("GET")
	router.HandleFunc("/users/{id}/reviews", h.ListForUser).Methods("GET")
}

type createReviewRequest struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	transactionID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.CreateReview(r.Context(), userID(r), transactionID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListForTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reviews, err := h.reviews.ListForTransaction(r.Context(), userID(r), transactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	revieweeID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	reviews, err := h.reviews.ListForUser(r.Context(), revieweeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
