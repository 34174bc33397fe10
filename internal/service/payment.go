package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransferResult is the gateway's acknowledgement of a completed transfer.
type TransferResult struct {
	Success    bool      `json:"success"`
	TransferID string    `json:"transfer_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// PaymentGateway moves funds between accounts. Calls may be slow and may
// fail; callers must not hold database claims on hot rows while a transfer
// is in flight and must treat a failure as aborting the enclosing operation.
// Account 0 is the platform escrow.
type PaymentGateway interface {
	Transfer(ctx context.Context, fromUserID, toUserID int32, amount float64, memo string) (*TransferResult, error)
}

// simulatedGateway stands in for a real payment processor. It acknowledges
// transfers with a generated reference and can inject failures for testing
// the abort paths.
type simulatedGateway struct {
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedGateway(failureRate float64) PaymentGateway {
	return &simulatedGateway{
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *simulatedGateway) Transfer(ctx context.Context, fromUserID, toUserID int32, amount float64, memo string) (*TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("transfer amount must be non-negative, got %.2f", amount)
	}

	if g.failureRate > 0 {
		g.mu.Lock()
		failed := g.rng.Float64() < g.failureRate
		g.mu.Unlock()
		if failed {
			return nil, fmt.Errorf("simulated gateway rejection for transfer %d -> %d", fromUserID, toUserID)
		}
	}

	return &TransferResult{
		Success:    true,
		TransferID: uuid.NewString(),
		Timestamp:  time.Now(),
	}, nil
}
