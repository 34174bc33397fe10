package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localloop-backend/internal/security"
)

func TestTokenManager(t *testing.T) {
	manager := security.NewTokenManager("unit-test-secret", 60)

	t.Run("Round Trip", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(123, "user@test.com")
		require.NoError(t, err)

		claims, err := manager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(123), claims.UserID)
		assert.Equal(t, "user@test.com", claims.Email)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := security.NewTokenManager("different-secret", 60)
		token, err := other.GenerateAccessToken(123, "user@test.com")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := manager.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}
