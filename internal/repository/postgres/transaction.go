package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, item_id, lender_id, borrower_id, status,
	requested_from, requested_to, message,
	reneg_from, reneg_to, reneg_message,
	deposit_amount, total_amount, original_lending_fee, final_lending_fee,
	discount_applied, discount_rate, is_premium_transaction,
	pickup_code, pickup_code_used, return_code, return_code_generated, return_code_used,
	damage_reported, damage_description, deposit_refund_percentage,
	deposit_returned, payment_to_lender_released,
	lender_reviewed, borrower_reviewed,
	request_date, return_date, updated_on`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	var renegFrom, renegTo, returnDate sql.NullTime
	var renegMessage sql.NullString
	err := row.Scan(
		&t.ID, &t.ItemID, &t.LenderID, &t.BorrowerID, &t.Status,
		&t.RequestedFrom, &t.RequestedTo, &t.Message,
		&renegFrom, &renegTo, &renegMessage,
		&t.DepositAmount, &t.TotalAmount, &t.OriginalLendingFee, &t.FinalLendingFee,
		&t.DiscountApplied, &t.DiscountRate, &t.IsPremiumTransaction,
		&t.PickupCode, &t.PickupCodeUsed, &t.ReturnCode, &t.ReturnCodeGenerated, &t.ReturnCodeUsed,
		&t.DamageReported, &t.DamageDescription, &t.DepositRefundPercentage,
		&t.DepositReturned, &t.PaymentToLenderReleased,
		&t.LenderReviewed, &t.BorrowerReviewed,
		&t.RequestDate, &returnDate, &t.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	if renegFrom.Valid && renegTo.Valid {
		t.Renegotiation = &domain.Renegotiation{
			ProposedFrom: renegFrom.Time,
			ProposedTo:   renegTo.Time,
			Message:      renegMessage.String,
		}
	}
	if returnDate.Valid {
		t.ReturnDate = &returnDate.Time
	}
	return t, nil
}

func renegFields(t *domain.Transaction) (sql.NullTime, sql.NullTime, sql.NullString) {
	if t.Renegotiation == nil {
		return sql.NullTime{}, sql.NullTime{}, sql.NullString{}
	}
	return sql.NullTime{Time: t.Renegotiation.ProposedFrom, Valid: true},
		sql.NullTime{Time: t.Renegotiation.ProposedTo, Valid: true},
		sql.NullString{String: t.Renegotiation.Message, Valid: true}
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (item_id, lender_id, borrower_id, status, requested_from, requested_to, message, request_date, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, request_date, updated_on`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		t.ItemID, t.LenderID, t.BorrowerID, t.Status,
		t.RequestedFrom, t.RequestedTo, t.Message, now, now,
	).Scan(&t.ID, &t.RequestDate, &t.UpdatedOn)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) HasPendingRequest(ctx context.Context, itemID, borrowerID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM transactions WHERE item_id = $1 AND borrower_id = $2 AND status = $3)`
	err := r.db.QueryRowContext(ctx, query, itemID, borrowerID, domain.TransactionStatusRequested).Scan(&exists)
	return exists, err
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func (r *transactionRepository) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE borrower_id = $1 ORDER BY request_date DESC`
	return r.list(ctx, query, borrowerID)
}

func (r *transactionRepository) ListByLender(ctx context.Context, lenderID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE lender_id = $1 ORDER BY request_date DESC`
	return r.list(ctx, query, lenderID)
}

func (r *transactionRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 AND requested_to < $2 ORDER BY requested_to`
	return r.list(ctx, query, domain.TransactionStatusBorrowed, asOf)
}

// Transition is the single write path for status-bearing mutations. The
// UPDATE is conditioned on the status the service observed when it loaded the
// record, so of two racing transitions exactly one sees its row count.
func (r *transactionRepository) Transition(ctx context.Context, t *domain.Transaction, observed domain.TransactionStatus) error {
	renegFrom, renegTo, renegMessage := renegFields(t)
	query := `UPDATE transactions SET
		status = $1, requested_from = $2, requested_to = $3, message = $4,
		reneg_from = $5, reneg_to = $6, reneg_message = $7,
		deposit_amount = $8, total_amount = $9, original_lending_fee = $10, final_lending_fee = $11,
		discount_applied = $12, discount_rate = $13, is_premium_transaction = $14,
		pickup_code = $15, pickup_code_used = $16,
		return_code = $17, return_code_generated = $18, return_code_used = $19,
		damage_reported = $20, damage_description = $21, deposit_refund_percentage = $22,
		deposit_returned = $23, payment_to_lender_released = $24,
		return_date = $25, updated_on = $26
		WHERE id = $27 AND status = $28`

	var returnDate sql.NullTime
	if t.ReturnDate != nil {
		returnDate = sql.NullTime{Time: *t.ReturnDate, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		t.Status, t.RequestedFrom, t.RequestedTo, t.Message,
		renegFrom, renegTo, renegMessage,
		t.DepositAmount, t.TotalAmount, t.OriginalLendingFee, t.FinalLendingFee,
		t.DiscountApplied, t.DiscountRate, t.IsPremiumTransaction,
		t.PickupCode, t.PickupCodeUsed,
		t.ReturnCode, t.ReturnCodeGenerated, t.ReturnCodeUsed,
		t.DamageReported, t.DamageDescription, t.DepositRefundPercentage,
		t.DepositReturned, t.PaymentToLenderReleased,
		returnDate, time.Now(),
		t.ID, observed,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *transactionRepository) SetPickupCode(ctx context.Context, id int32, code string) error {
	query := `UPDATE transactions SET pickup_code = $1, updated_on = $2
	          WHERE id = $3 AND status = $4 AND pickup_code = '' AND pickup_code_used = false`
	return r.setCode(ctx, query, code, id, domain.TransactionStatusPaid)
}

func (r *transactionRepository) SetReturnCode(ctx context.Context, id int32, code string) error {
	query := `UPDATE transactions SET return_code = $1, return_code_generated = true, updated_on = $2
	          WHERE id = $3 AND status = $4 AND return_code = '' AND return_code_used = false`
	return r.setCode(ctx, query, code, id, domain.TransactionStatusBorrowed)
}

func (r *transactionRepository) setCode(ctx context.Context, query, code string, id int32, status domain.TransactionStatus) error {
	res, err := r.db.ExecContext(ctx, query, code, time.Now(), id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *transactionRepository) SetReviewFlag(ctx context.Context, id int32, lender bool) error {
	column := "borrower_reviewed"
	if lender {
		column = "lender_reviewed"
	}
	query := `UPDATE transactions SET ` + column + ` = true, updated_on = $1 WHERE id = $2 AND ` + column + ` = false`
	res, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}
