package postgres

import (
	"context"
	"database/sql"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type transferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

const transferColumns = `id, transaction_id, purpose, from_user_id, to_user_id, amount, gateway_ref, created_on, completed_on`

func scanTransfer(row rowScanner) (*domain.TransferRecord, error) {
	rec := &domain.TransferRecord{}
	var completedOn sql.NullTime
	err := row.Scan(&rec.ID, &rec.TransactionID, &rec.Purpose, &rec.FromUserID,
		&rec.ToUserID, &rec.Amount, &rec.GatewayRef, &rec.CreatedOn, &completedOn)
	if err != nil {
		return nil, err
	}
	if completedOn.Valid {
		rec.CompletedOn = &completedOn.Time
	}
	return rec, nil
}

// Begin relies on the unique index on (transaction_id, purpose): the ON
// CONFLICT DO NOTHING insert returns no id when the slot is already claimed.
func (r *transferRepository) Begin(ctx context.Context, rec *domain.TransferRecord) error {
	query := `INSERT INTO transfers (transaction_id, purpose, from_user_id, to_user_id, amount, gateway_ref, created_on)
	          VALUES ($1, $2, $3, $4, $5, '', $6)
	          ON CONFLICT (transaction_id, purpose) DO NOTHING
	          RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query,
		rec.TransactionID, rec.Purpose, rec.FromUserID, rec.ToUserID, rec.Amount, time.Now(),
	).Scan(&rec.ID, &rec.CreatedOn)
	if err == sql.ErrNoRows {
		return domain.ErrConflict
	}
	return err
}

func (r *transferRepository) Complete(ctx context.Context, id int32, gatewayRef string) error {
	query := `UPDATE transfers SET gateway_ref = $1, completed_on = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, gatewayRef, time.Now(), id)
	return err
}

func (r *transferRepository) Abort(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = $1 AND completed_on IS NULL`, id)
	return err
}

func (r *transferRepository) ListByTransaction(ctx context.Context, transactionID int32) ([]domain.TransferRecord, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transaction_id = $1 ORDER BY created_on`
	return r.list(ctx, query, transactionID)
}

// ListDangling finds transfers whose transaction status disagrees with the
// money that moved. Completed transfers paired with the status they should
// have moved the transaction out of mark a crash between the gateway call
// and the status commit; a completed payout on a retracted transaction marks
// a pickup that lost the status race after paying out; a pending retraction
// refund on a retracted transaction marks a committed retraction whose
// refund never went through.
func (r *transferRepository) ListDangling(ctx context.Context) ([]domain.TransferRecord, error) {
	query := `SELECT ` + prefixedTransferColumns + `
	          FROM transfers tr
	          JOIN transactions t ON t.id = tr.transaction_id
	          WHERE (tr.completed_on IS NOT NULL
	                 AND ((tr.purpose = $1 AND t.status IN ($2, $3, $4))
	                   OR (tr.purpose IN ($5, $6) AND t.status = $7)))
	             OR (tr.completed_on IS NULL AND tr.purpose = $8 AND t.status = $4)`
	return r.list(ctx, query,
		domain.TransferPurposeLenderPayout,
		domain.TransactionStatusPaid, domain.TransactionStatusAccepted,
		domain.TransactionStatusRetracted,
		domain.TransferPurposeDepositRefund, domain.TransferPurposeDamageCompensation,
		domain.TransactionStatusReturned,
		domain.TransferPurposeRetractionRefund)
}

const prefixedTransferColumns = `tr.id, tr.transaction_id, tr.purpose, tr.from_user_id, tr.to_user_id, tr.amount, tr.gateway_ref, tr.created_on, tr.completed_on`

func (r *transferRepository) list(ctx context.Context, query string, args ...any) ([]domain.TransferRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.TransferRecord
	for rows.Next() {
		rec, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}
