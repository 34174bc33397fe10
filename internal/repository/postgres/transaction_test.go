package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository/postgres"
)

var transactionRows = []string{
	"id", "item_id", "lender_id", "borrower_id", "status",
	"requested_from", "requested_to", "message",
	"reneg_from", "reneg_to", "reneg_message",
	"deposit_amount", "total_amount", "original_lending_fee", "final_lending_fee",
	"discount_applied", "discount_rate", "is_premium_transaction",
	"pickup_code", "pickup_code_used", "return_code", "return_code_generated", "return_code_used",
	"damage_reported", "damage_description", "deposit_refund_percentage",
	"deposit_returned", "payment_to_lender_released",
	"lender_reviewed", "borrower_reviewed",
	"request_date", "return_date", "updated_on",
}

func addTransactionRow(rows *sqlmock.Rows, id int32, status domain.TransactionStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, 5, 10, 20, status,
		now, now.AddDate(0, 0, 6), "please",
		nil, nil, nil,
		500.0, 600.0, 100.0, 100.0,
		false, 0.0, false,
		"", false, "", false, false,
		false, "", 0.0,
		false, false,
		false, false,
		now, nil, now,
	)
}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	now := time.Now()
	tx := &domain.Transaction{
		ItemID:        5,
		LenderID:      10,
		BorrowerID:    20,
		Status:        domain.TransactionStatusRequested,
		RequestedFrom: now,
		RequestedTo:   now.AddDate(0, 0, 6),
		Message:       "please",
	}

	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs(tx.ItemID, tx.LenderID, tx.BorrowerID, tx.Status, tx.RequestedFrom, tx.RequestedTo, tx.Message, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_date", "updated_on"}).AddRow(1, now, now))

	require.NoError(t, repo.Create(ctx, tx))
	assert.Equal(t, int32(1), tx.ID)
}

func TestTransactionRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		rows := addTransactionRow(sqlmock.NewRows(transactionRows), 1, domain.TransactionStatusPaid)
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		tx, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusPaid, tx.Status)
		assert.Nil(t, tx.Renegotiation)
		assert.Equal(t, 500.0, tx.DepositAmount)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(transactionRows))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTransactionRepository_Transition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	tx := &domain.Transaction{
		ID:     1,
		Status: domain.TransactionStatusAccepted,
	}

	t.Run("Observed Status Matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Transition(ctx, tx, domain.TransactionStatusRequested)
		assert.NoError(t, err)
	})

	t.Run("Lost Race Returns Conflict", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Transition(ctx, tx, domain.TransactionStatusRequested)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestTransactionRepository_SetPickupCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("First Issue Wins", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET pickup_code").
			WithArgs("AB12CD", sqlmock.AnyArg(), int32(1), domain.TransactionStatusPaid).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetPickupCode(ctx, 1, "AB12CD"))
	})

	t.Run("Code Already Set", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET pickup_code").
			WithArgs("EF34AB", sqlmock.AnyArg(), int32(1), domain.TransactionStatusPaid).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetPickupCode(ctx, 1, "EF34AB"), domain.ErrConflict)
	})
}

func TestTransactionRepository_SetReviewFlag(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	t.Run("Lender Flag", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET lender_reviewed").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetReviewFlag(ctx, 1, true))
	})

	t.Run("Already Reviewed", func(t *testing.T) {
		mock.ExpectExec("UPDATE transactions SET borrower_reviewed").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetReviewFlag(ctx, 1, false), domain.ErrConflict)
	})
}

func TestTransactionRepository_ListOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewTransactionRepository(db)
	ctx := context.Background()

	rows := addTransactionRow(sqlmock.NewRows(transactionRows), 1, domain.TransactionStatusBorrowed)
	rows = addTransactionRow(rows, 2, domain.TransactionStatusBorrowed)
	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE status = \\$1 AND requested_to < \\$2").
		WithArgs(domain.TransactionStatusBorrowed, sqlmock.AnyArg()).
		WillReturnRows(rows)

	overdue, err := repo.ListOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, overdue, 2)
}
