package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"localloop-backend/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/me", h.Me).Methods("GET")
	router.HandleFunc("/users/me", h.UpdateProfile).Methods("PUT")
	router.HandleFunc("/users/me/premium", h.UpgradePremium).Methods("POST")
	router.HandleFunc("/users/me/premium", h.CancelPremium).Methods("DELETE")
	router.HandleFunc("/users/me/pricing-preview", h.PricingPreview).Methods("POST")
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ZipCode  string `json:"zip_code"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), userID(r), req.Username, req.Email, req.ZipCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type upgradePremiumRequest struct {
	Months int `json:"months"`
}

func (h *UserHandler) UpgradePremium(w http.ResponseWriter, r *http.Request) {
	var req upgradePremiumRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpgradeToPremium(r.Context(), userID(r), req.Months)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CancelPremium(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.CancelPremium(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type pricingPreviewRequest struct {
	WeeklyRate float64    `json:"weekly_rate"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

func (h *UserHandler) PricingPreview(w http.ResponseWriter, r *http.Request) {
	var req pricingPreviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quote, err := h.users.PricingPreview(r.Context(), userID(r), req.WeeklyRate, req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
