package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"localloop-backend/internal/service"
)

type TransactionHandler struct {
	transactions service.TransactionService
}

func NewTransactionHandler(transactions service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.RequestLend).Methods("POST")
	router.HandleFunc("/transactions/borrowings", h.ListBorrowings).Methods("GET")
	router.HandleFunc("/transactions/lendings", h.ListLendings).Methods("GET")
	router.HandleFunc("/transactions/{id}", h.Get).Methods("GET")
	router.HandleFunc("/transactions/{id}/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/transactions/{id}/financials", h.GetFinancials).Methods("GET")

	router.HandleFunc("/transactions/{id}/accept", h.Accept).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/decline", h.Decline).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/renegotiate", h.Renegotiate).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/renegotiation/accept", h.AcceptRenegotiation).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/renegotiation/decline", h.DeclineRenegotiation).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/edit", h.Edit).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/retract", h.Retract).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/complete-payment", h.CompletePayment).Methods("PATCH")

	router.HandleFunc("/transactions/{id}/pickup-code", h.GeneratePickupCode).Methods("POST")
	router.HandleFunc("/transactions/{id}/pickup-code", h.UsePickupCode).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/force-pickup", h.ForcePickup).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/return-code", h.GenerateReturnCode).Methods("POST")
	router.HandleFunc("/transactions/{id}/return-code", h.SubmitReturnCode).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/return-complete", h.ForceCompleteReturn).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/report-damage", h.ReportDamage).Methods("PATCH")
	router.HandleFunc("/transactions/{id}/confirm-no-damage", h.ConfirmNoDamage).Methods("PATCH")
}

type requestLendRequest struct {
	ItemID        int32     `json:"item_id"`
	RequestedFrom time.Time `json:"requested_from"`
	RequestedTo   time.Time `json:"requested_to"`
	Message       string    `json:"message"`
}

func (h *TransactionHandler) RequestLend(w http.ResponseWriter, r *http.Request) {
	var req requestLendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	t, err := h.transactions.RequestLend(r.Context(), userID(r), service.RequestLendInput{
		ItemID:        req.ItemID,
		RequestedFrom: req.RequestedFrom,
		RequestedTo:   req.RequestedTo,
		Message:       req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := h.transactions.GetTransaction(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) ListBorrowings(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.ListBorrowings(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TransactionHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	list, err := h.transactions.ListLendings(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.transactions.GetPaymentSummary(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *TransactionHandler) GetFinancials(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fin, err := h.transactions.GetFinancials(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// transition wraps the handlers that take no request body.
func (h *TransactionHandler) transition(w http.ResponseWriter, r *http.Request, op func(id int32) (any, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := op(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.Accept(r.Context(), userID(r), id)
	})
}

func (h *TransactionHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.Decline(r.Context(), userID(r), id)
	})
}

type renegotiateRequest struct {
	ProposedFrom time.Time `json:"proposed_from"`
	ProposedTo   time.Time `json:"proposed_to"`
	Message      string    `json:"message"`
}

func (h *TransactionHandler) Renegotiate(w http.ResponseWriter, r *http.Request) {
	var req renegotiateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.Renegotiate(r.Context(), userID(r), id, service.RenegotiateInput{
			ProposedFrom: req.ProposedFrom,
			ProposedTo:   req.ProposedTo,
			Message:      req.Message,
		})
	})
}

func (h *TransactionHandler) AcceptRenegotiation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.AcceptRenegotiation(r.Context(), userID(r), id)
	})
}

func (h *TransactionHandler) DeclineRenegotiation(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.DeclineRenegotiation(r.Context(), userID(r), id)
	})
}

type editRequest struct {
	RequestedFrom time.Time `json:"requested_from"`
	RequestedTo   time.Time `json:"requested_to"`
	Message       string    `json:"message"`
}

func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.Edit(r.Context(), userID(r), id, service.EditInput{
			RequestedFrom: req.RequestedFrom,
			RequestedTo:   req.RequestedTo,
			Message:       req.Message,
		})
	})
}

func (h *TransactionHandler) Retract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.Retract(r.Context(), userID(r), id)
	})
}

func (h *TransactionHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.CompletePayment(r.Context(), userID(r), id)
	})
}

func (h *TransactionHandler) GeneratePickupCode(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		code, err := h.transactions.GeneratePickupCode(r.Context(), userID(r), id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"pickup_code": code}, nil
	})
}

type codeRequest struct {
	Code string `json:"code"`
}

func (h *TransactionHandler) UsePickupCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.UsePickupCode(r.Context(), userID(r), id, req.Code)
	})
}

func (h *TransactionHandler) ForcePickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.ForcePickup(r.Context(), userID(r), id)
	})
}

func (h *TransactionHandler) GenerateReturnCode(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		code, err := h.transactions.GenerateReturnCode(r.Context(), userID(r), id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"return_code": code}, nil
	})
}

func (h *TransactionHandler) SubmitReturnCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.SubmitReturnCode(r.Context(), userID(r), id, req.Code)
	})
}

func (h *TransactionHandler) ForceCompleteReturn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.ForceCompleteReturn(r.Context(), userID(r), id)
	})
}

type reportDamageRequest struct {
	Description      string  `json:"description"`
	RefundPercentage float64 `json:"refund_percentage"`
}

func (h *TransactionHandler) ReportDamage(w http.ResponseWriter, r *http.Request) {
	var req reportDamageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.ReportDamage(r.Context(), userID(r), id, req.Description, req.RefundPercentage)
	})
}

func (h *TransactionHandler) ConfirmNoDamage(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(id int32) (any, error) {
		return h.transactions.ConfirmNoDamage(r.Context(), userID(r), id)
	})
}
