package service

import (
	"context"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/pricing"
)

// RequestLendInput starts a borrow request for an item.
type RequestLendInput struct {
	ItemID        int32
	RequestedFrom time.Time
	RequestedTo   time.Time
	Message       string
}

// RenegotiateInput proposes a replacement date range.
type RenegotiateInput struct {
	ProposedFrom time.Time
	ProposedTo   time.Time
	Message      string
}

// EditInput adjusts the requested date range before the loan starts.
type EditInput struct {
	RequestedFrom time.Time
	RequestedTo   time.Time
	Message       string
}

// PaymentSummary is the short financial view both parties may fetch.
type PaymentSummary struct {
	ID          int32                    `json:"id"`
	Borrower    string                   `json:"borrower"`
	Lender      string                   `json:"lender"`
	ItemTitle   string                   `json:"item_title"`
	ItemPrice   float64                  `json:"item_price"`
	Status      domain.TransactionStatus `json:"status"`
	RequestDate time.Time                `json:"request_date"`
}

// Financials is the full frozen financial snapshot plus transfer history.
type Financials struct {
	DepositAmount           float64                 `json:"deposit_amount"`
	TotalAmount             float64                 `json:"total_amount"`
	OriginalLendingFee      float64                 `json:"original_lending_fee"`
	FinalLendingFee         float64                 `json:"final_lending_fee"`
	DiscountApplied         bool                    `json:"discount_applied"`
	DiscountRate            float64                 `json:"discount_rate"`
	IsPremiumTransaction    bool                    `json:"is_premium_transaction"`
	DepositReturned         bool                    `json:"deposit_returned"`
	DepositRefundPercentage float64                 `json:"deposit_refund_percentage"`
	PaymentToLenderReleased bool                    `json:"payment_to_lender_released"`
	Transfers               []domain.TransferRecord `json:"transfers"`
}

// TransactionService is the sole authority over the transaction lifecycle.
// Every operation authorizes the acting user against the transaction's
// lender/borrower references and fails without mutation when the current
// status does not permit the transition.
type TransactionService interface {
	RequestLend(ctx context.Context, borrowerID int32, in RequestLendInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int32) (*domain.Transaction, error)
	ListBorrowings(ctx context.Context, userID int32) ([]domain.Transaction, error)
	ListLendings(ctx context.Context, userID int32) ([]domain.Transaction, error)
	GetPaymentSummary(ctx context.Context, userID, id int32) (*PaymentSummary, error)
	GetFinancials(ctx context.Context, userID, id int32) (*Financials, error)

	Accept(ctx context.Context, lenderID, id int32) (*domain.Transaction, error)
	Decline(ctx context.Context, lenderID, id int32) (*domain.Transaction, error)
	Renegotiate(ctx context.Context, userID, id int32, in RenegotiateInput) (*domain.Transaction, error)
	AcceptRenegotiation(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error)
	DeclineRenegotiation(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error)
	Edit(ctx context.Context, borrowerID, id int32, in EditInput) (*domain.Transaction, error)
	Retract(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error)

	CompletePayment(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error)
	GeneratePickupCode(ctx context.Context, borrowerID, id int32) (string, error)
	UsePickupCode(ctx context.Context, lenderID, id int32, code string) (*domain.Transaction, error)
	ForcePickup(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error)
	GenerateReturnCode(ctx context.Context, lenderID, id int32) (string, error)
	SubmitReturnCode(ctx context.Context, borrowerID, id int32, code string) (*domain.Transaction, error)
	ForceCompleteReturn(ctx context.Context, lenderID, id int32) (*domain.Transaction, error)
	ReportDamage(ctx context.Context, lenderID, id int32, description string, refundPercentage float64) (*domain.Transaction, error)
	ConfirmNoDamage(ctx context.Context, lenderID, id int32) (*domain.Transaction, error)
}

// ItemInput carries the caller-editable item fields.
type ItemInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
	Images      []string
	ZipCode     string
}

// NearbyItem is a search result annotated with its distance from the caller.
type NearbyItem struct {
	Item       domain.Item `json:"item"`
	DistanceKm float64     `json:"distance_km"`
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int32, in ItemInput) (*domain.Item, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	UpdateItem(ctx context.Context, ownerID, id int32, in ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, ownerID, id int32) error
	ListMyItems(ctx context.Context, ownerID int32) ([]domain.Item, error)
	SearchItems(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error)
	NearbyItems(ctx context.Context, zip string, radiusKm float64) ([]NearbyItem, error)
}

type UserService interface {
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, username, email, zipCode string) (*domain.User, error)
	UpgradeToPremium(ctx context.Context, userID int32, months int) (*domain.User, error)
	CancelPremium(ctx context.Context, userID int32) (*domain.User, error)
	PricingPreview(ctx context.Context, userID int32, weeklyRate float64, from, to *time.Time) (*pricing.Quote, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password, zipCode string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, reviewerID, transactionID int32, rating int32, comment string) (*domain.Review, error)
	ListForTransaction(ctx context.Context, userID, transactionID int32) ([]domain.Review, error)
	ListForUser(ctx context.Context, userID int32) ([]domain.Review, error)
}

// EmailService sends lifecycle notifications. All sends are best-effort: a
// failure is logged and never blocks a transition.
type EmailService interface {
	SendRequestNotification(ctx context.Context, toEmail, borrowerName, itemTitle string) error
	SendAcceptanceNotification(ctx context.Context, toEmail, itemTitle, lenderName string) error
	SendDeclineNotification(ctx context.Context, toEmail, itemTitle string) error
	SendCompletionNotification(ctx context.Context, toEmail, itemTitle string, refundAmount float64) error
	SendOverdueReminder(ctx context.Context, toEmail, itemTitle string, dueSince time.Time) error
}
