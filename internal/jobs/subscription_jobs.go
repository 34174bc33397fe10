package jobs

import (
	"context"
	"time"

	"localloop-backend/internal/logger"
)

// ExpirePremiumSubscriptions downgrades premium users whose paid period has
// ended back to the free tier.
func (jr *JobRunner) ExpirePremiumSubscriptions() {
	jr.runWithRecovery("ExpirePremiumSubscriptions", func() {
		ctx := context.Background()

		count, err := jr.store.Users.DowngradeExpiredPremium(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire premium subscriptions", "error", err)
			return
		}
		logger.Info("Expired premium subscriptions", "count", count)
	})
}
