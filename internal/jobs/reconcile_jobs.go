package jobs

import (
	"context"
	"errors"
	"fmt"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/pricing"
	"localloop-backend/internal/service"
)

// ReconcileReleasedPayments repairs transactions whose money already moved
// but whose status commit never landed. A completed transfer record paired
// with a stale transaction status marks a crash between the gateway call and
// the status write; this job re-applies the missing commit and the item
// cascade.
func (jr *JobRunner) ReconcileReleasedPayments() {
	jr.runWithRecovery("ReconcileReleasedPayments", func() {
		ctx := context.Background()

		dangling, err := jr.store.Transfers.ListDangling(ctx)
		if err != nil {
			logger.Error("Failed to list dangling transfers", "error", err)
			return
		}
		if len(dangling) == 0 {
			return
		}

		repaired := 0
		for _, rec := range dangling {
			if err := jr.repairTransfer(ctx, rec); err != nil {
				logger.Error("Failed to repair transaction after released payment",
					"transaction_id", rec.TransactionID, "purpose", rec.Purpose, "error", err)
				continue
			}
			repaired++
		}
		logger.Info("Reconciled released payments", "dangling", len(dangling), "repaired", repaired)
	})
}

func (jr *JobRunner) repairTransfer(ctx context.Context, rec domain.TransferRecord) error {
	t, err := jr.store.Transactions.GetByID(ctx, rec.TransactionID)
	if err != nil {
		return err
	}

	switch rec.Purpose {
	case domain.TransferPurposeLenderPayout:
		switch t.Status {
		case domain.TransactionStatusPaid, domain.TransactionStatusAccepted:
		case domain.TransactionStatusRetracted:
			// A retraction won the commit after the pickup already paid
			// the lender. Claw the payout back into escrow; the reversal
			// slot keeps the repair single-shot across job runs.
			return jr.reversePayout(ctx, t, rec)
		default:
			return nil // already advanced
		}
		observed := t.Status
		t.Status = domain.TransactionStatusBorrowed
		t.PickupCodeUsed = true
		t.PaymentToLenderReleased = true
		if err := jr.store.Transactions.Transition(ctx, t, observed); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil // raced with a live transition, nothing left to do
			}
			return err
		}
		if err := jr.store.Items.UpdateStatus(ctx, t.ItemID, domain.ItemStatusBorrowed); err != nil {
			logger.Error("Item cascade failed during reconciliation", "item_id", t.ItemID, "error", err)
		}

	case domain.TransferPurposeRetractionRefund:
		// The retraction committed but its refund never completed.
		if t.Status != domain.TransactionStatusRetracted || rec.CompletedOn != nil {
			return nil
		}
		res, err := jr.services.Gateway.Transfer(ctx, service.EscrowAccountID, rec.ToUserID, rec.Amount,
			fmt.Sprintf("retraction refund for transaction %d", t.ID))
		if err != nil {
			return err
		}
		if err := jr.store.Transfers.Complete(ctx, rec.ID, res.TransferID); err != nil {
			return err
		}
		logger.Info("Completed pending retraction refund",
			"transaction_id", t.ID, "amount", rec.Amount)

	case domain.TransferPurposeDepositRefund, domain.TransferPurposeDamageCompensation:
		if t.Status != domain.TransactionStatusReturned {
			return nil
		}
		// The damage split is recoverable from the refund amount.
		if t.DepositAmount > 0 {
			transfers, err := jr.store.Transfers.ListByTransaction(ctx, t.ID)
			if err != nil {
				return err
			}
			for _, tr := range transfers {
				if tr.Purpose == domain.TransferPurposeDepositRefund && tr.CompletedOn != nil {
					t.DepositRefundPercentage = pricing.Round2(tr.Amount / t.DepositAmount * 100)
				}
			}
		}
		t.DepositReturned = true
		t.Status = domain.TransactionStatusCompleted
		if err := jr.store.Transactions.Transition(ctx, t, domain.TransactionStatusReturned); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil
			}
			return err
		}
		if err := jr.store.Items.UpdateStatus(ctx, t.ItemID, domain.ItemStatusAvailable); err != nil {
			logger.Error("Item cascade failed during reconciliation", "item_id", t.ItemID, "error", err)
		}
	}
	return nil
}

// reversePayout moves a lender payout back into escrow after a retraction
// overtook the pickup that released it.
func (jr *JobRunner) reversePayout(ctx context.Context, t *domain.Transaction, payout domain.TransferRecord) error {
	reversal := &domain.TransferRecord{
		TransactionID: t.ID,
		Purpose:       domain.TransferPurposePayoutReversal,
		FromUserID:    payout.ToUserID,
		ToUserID:      service.EscrowAccountID,
		Amount:        payout.Amount,
	}
	if err := jr.store.Transfers.Begin(ctx, reversal); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil // already reversed
		}
		return err
	}
	res, err := jr.services.Gateway.Transfer(ctx, payout.ToUserID, service.EscrowAccountID, payout.Amount,
		fmt.Sprintf("payout reversal after retraction of transaction %d", t.ID))
	if err != nil {
		if abortErr := jr.store.Transfers.Abort(ctx, reversal.ID); abortErr != nil {
			logger.Error("Failed to release payout reversal claim", "transaction_id", t.ID, "error", abortErr)
		}
		return err
	}
	if err := jr.store.Transfers.Complete(ctx, reversal.ID, res.TransferID); err != nil {
		return err
	}
	logger.Info("Reversed lender payout after retraction",
		"transaction_id", t.ID, "amount", payout.Amount)
	return nil
}
