package jobs

import (
	"context"
	"time"

	"localloop-backend/internal/logger"
)

// MarkOverdueLoans finds borrowed items past their agreed return date and
// reminds the borrower. The transaction status is untouched; the return flow
// still runs through the normal code handoff.
func (jr *JobRunner) MarkOverdueLoans() {
	jr.runWithRecovery("MarkOverdueLoans", func() {
		ctx := context.Background()

		overdue, err := jr.store.Transactions.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		notified := 0
		for _, t := range overdue {
			borrower, err := jr.store.Users.GetByID(ctx, t.BorrowerID)
			if err != nil {
				logger.Error("Failed to load overdue borrower", "transaction_id", t.ID, "error", err)
				continue
			}
			title := jr.itemTitle(ctx, t.ItemID)
			if err := jr.services.Email.SendOverdueReminder(ctx, borrower.Email, title, t.RequestedTo); err != nil {
				logger.Warn("Overdue reminder failed", "transaction_id", t.ID, "error", err)
				continue
			}
			logger.Debug("Overdue reminder sent",
				"transaction_id", t.ID, "borrower_id", t.BorrowerID, "due", t.RequestedTo)
			notified++
		}
		logger.Info("Processed overdue loans", "overdue", len(overdue), "notified", notified)
	})
}

func (jr *JobRunner) itemTitle(ctx context.Context, itemID int32) string {
	item, err := jr.store.Items.GetByID(ctx, itemID)
	if err != nil {
		return "your borrowed item"
	}
	return item.Title
}
