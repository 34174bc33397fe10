package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusRequested              TransactionStatus = "requested"
	TransactionStatusAccepted               TransactionStatus = "accepted"
	TransactionStatusPaid                   TransactionStatus = "paid"
	TransactionStatusRejected               TransactionStatus = "rejected"
	TransactionStatusBorrowed               TransactionStatus = "borrowed"
	TransactionStatusReturned               TransactionStatus = "returned"
	TransactionStatusCompleted              TransactionStatus = "completed"
	TransactionStatusRenegotiationRequested TransactionStatus = "renegotiation_requested"
	TransactionStatusRetracted              TransactionStatus = "retracted"
)

// IsTerminal reports whether no further transition may leave this status.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusRejected, TransactionStatusRetracted:
		return true
	}
	return false
}

// Renegotiation is a proposed replacement date range awaiting the other
// party's decision. Present only while status is renegotiation_requested.
type Renegotiation struct {
	ProposedFrom time.Time `json:"proposed_from"`
	ProposedTo   time.Time `json:"proposed_to"`
	Message      string    `json:"message"`
}

type Transaction struct {
	ID         int32             `json:"id"`
	ItemID     int32             `json:"item_id"`
	LenderID   int32             `json:"lender_id"`
	BorrowerID int32             `json:"borrower_id"`
	Status     TransactionStatus `json:"status"`

	RequestedFrom time.Time      `json:"requested_from"`
	RequestedTo   time.Time      `json:"requested_to"`
	Message       string         `json:"message"`
	Renegotiation *Renegotiation `json:"renegotiation,omitempty"`

	// Financial snapshot, frozen when payment completes. Only the
	// damage-resolution step may touch deposit fields afterwards.
	DepositAmount        float64 `json:"deposit_amount"`
	TotalAmount          float64 `json:"total_amount"`
	OriginalLendingFee   float64 `json:"original_lending_fee"`
	FinalLendingFee      float64 `json:"final_lending_fee"`
	DiscountApplied      bool    `json:"discount_applied"`
	DiscountRate         float64 `json:"discount_rate"`
	IsPremiumTransaction bool    `json:"is_premium_transaction"`

	PickupCode          string `json:"-"`
	PickupCodeUsed      bool   `json:"pickup_code_used"`
	ReturnCode          string `json:"-"`
	ReturnCodeGenerated bool   `json:"return_code_generated"`
	ReturnCodeUsed      bool   `json:"return_code_used"`

	DamageReported          bool    `json:"damage_reported"`
	DamageDescription       string  `json:"damage_description"`
	DepositRefundPercentage float64 `json:"deposit_refund_percentage"`
	DepositReturned         bool    `json:"deposit_returned"`
	PaymentToLenderReleased bool    `json:"payment_to_lender_released"`

	LenderReviewed   bool `json:"lender_reviewed"`
	BorrowerReviewed bool `json:"borrower_reviewed"`

	RequestDate time.Time  `json:"request_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// HasParty reports whether userID is the lender or the borrower.
func (t *Transaction) HasParty(userID int32) bool {
	return t.LenderID == userID || t.BorrowerID == userID
}
