package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localloop-backend/internal/service"
)

func TestSimulatedGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gw := service.NewSimulatedGateway(0)
		res, err := gw.Transfer(ctx, 0, 1, 42.50, "payout")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.NotEmpty(t, res.TransferID)
	})

	t.Run("Unique Transfer IDs", func(t *testing.T) {
		gw := service.NewSimulatedGateway(0)
		a, err := gw.Transfer(ctx, 0, 1, 10, "a")
		require.NoError(t, err)
		b, err := gw.Transfer(ctx, 0, 1, 10, "b")
		require.NoError(t, err)
		assert.NotEqual(t, a.TransferID, b.TransferID)
	})

	t.Run("Negative Amount", func(t *testing.T) {
		gw := service.NewSimulatedGateway(0)
		_, err := gw.Transfer(ctx, 0, 1, -5, "bad")
		assert.Error(t, err)
	})

	t.Run("Always Failing", func(t *testing.T) {
		gw := service.NewSimulatedGateway(1)
		_, err := gw.Transfer(ctx, 0, 1, 10, "doomed")
		assert.Error(t, err)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		gw := service.NewSimulatedGateway(0)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := gw.Transfer(cancelled, 0, 1, 10, "late")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
