package domain

import "time"

type TransferPurpose string

const (
	TransferPurposeLenderPayout       TransferPurpose = "LENDER_PAYOUT"
	TransferPurposeDepositRefund      TransferPurpose = "DEPOSIT_REFUND"
	TransferPurposeDamageCompensation TransferPurpose = "DAMAGE_COMPENSATION"
	TransferPurposeRetractionRefund   TransferPurpose = "RETRACTION_REFUND"
	// TransferPurposePayoutReversal claws a lender payout back into escrow
	// when a retraction won the status race against a pickup.
	TransferPurposePayoutReversal TransferPurpose = "LENDER_PAYOUT_REVERSAL"
)

// TransferRecord tracks every payment-gateway transfer attempted for a
// transaction. A record is inserted before the gateway call (at most one per
// transaction+purpose) and completed with the gateway's transfer ID after
// success. A completed record whose transaction never advanced marks a crash
// between transfer and commit; the reconciliation job picks those up.
type TransferRecord struct {
	ID            int32           `json:"id"`
	TransactionID int32           `json:"transaction_id"`
	Purpose       TransferPurpose `json:"purpose"`
	FromUserID    int32           `json:"from_user_id"`
	ToUserID      int32           `json:"to_user_id"`
	Amount        float64         `json:"amount"`
	GatewayRef    string          `json:"gateway_ref"` // empty until the transfer succeeds
	CreatedOn     time.Time       `json:"created_on"`
	CompletedOn   *time.Time      `json:"completed_on,omitempty"`
}
