package repository

import (
	"context"
	"time"

	"localloop-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// DowngradeExpiredPremium flips premium users whose expiry has passed
	// back to the free tier and returns how many were downgraded.
	DowngradeExpiredPremium(ctx context.Context, now time.Time) (int64, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int32) error
	CountByOwner(ctx context.Context, ownerID int32) (int32, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error)
	Search(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error)
	// ListAvailableWithLocation returns available items that carry
	// coordinates, for distance-based search.
	ListAvailableWithLocation(ctx context.Context) ([]domain.Item, error)
	// UpdateStatus is the cascade write the transaction state machine uses.
	// It is idempotent: setting an item to its current status is a no-op.
	UpdateStatus(ctx context.Context, id int32, status domain.ItemStatus) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	// HasPendingRequest reports whether the borrower already has an open
	// request for the item.
	HasPendingRequest(ctx context.Context, itemID, borrowerID int32) (bool, error)
	ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error)
	ListByLender(ctx context.Context, lenderID int32) ([]domain.Transaction, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error)

	// Transition writes tx's mutable fields, guarded by the status the
	// caller observed. Zero rows affected means a concurrent transition won
	// the race and domain.ErrConflict is returned.
	Transition(ctx context.Context, tx *domain.Transaction, observed domain.TransactionStatus) error
	// SetPickupCode stores a freshly issued pickup code. The write only
	// lands while no code is set, so concurrent issuers converge on one
	// code; the loser re-reads and returns the stored one.
	SetPickupCode(ctx context.Context, id int32, code string) error
	SetReturnCode(ctx context.Context, id int32, code string) error
	// SetReviewFlag marks lender_reviewed or borrower_reviewed, failing
	// with domain.ErrConflict when the flag is already set.
	SetReviewFlag(ctx context.Context, id int32, lender bool) error
}

type TransferRepository interface {
	// Begin claims the (transaction, purpose) slot before the gateway call.
	// A second Begin for the same slot returns domain.ErrConflict, which is
	// what makes concurrent redemptions and double deposit resolution
	// single-winner.
	Begin(ctx context.Context, rec *domain.TransferRecord) error
	Complete(ctx context.Context, id int32, gatewayRef string) error
	// Abort releases the slot after a gateway failure so the caller can retry.
	Abort(ctx context.Context, id int32) error
	ListByTransaction(ctx context.Context, transactionID int32) ([]domain.TransferRecord, error)
	// ListDangling returns completed transfers whose transaction never
	// advanced past the status the transfer belongs to.
	ListDangling(ctx context.Context) ([]domain.TransferRecord, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByTransaction(ctx context.Context, transactionID int32) ([]domain.Review, error)
	ListByReviewee(ctx context.Context, revieweeID int32) ([]domain.Review, error)
}

type ZipCodeRepository interface {
	GetByZip(ctx context.Context, zip string) (*domain.ZipCode, error)
	BulkInsert(ctx context.Context, codes []domain.ZipCode) error
}
