package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/security"
	"localloop-backend/internal/service"
)

func newAuthService(userRepo *MockUserRepo) (service.AuthService, security.TokenManager) {
	tokens := security.NewTokenManager("test-secret", 60)
	return service.NewAuthService(userRepo, tokens), tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, tokens := newAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, domain.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.User).ID = 42
			}).Return(nil)

		user, token, err := svc.Register(ctx, "newbie", "New@Test.com", "hunter2hunter2", "10115")
		require.NoError(t, err)
		assert.Equal(t, "new@test.com", user.Email)
		assert.Equal(t, domain.SubscriptionFree, user.Subscription)
		assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(42), claims.UserID)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, _ := newAuthService(userRepo)

		userRepo.On("GetByEmail", ctx, "taken@test.com").Return(&domain.User{ID: 1}, nil)

		_, _, err := svc.Register(ctx, "dup", "taken@test.com", "hunter2hunter2", "")
		assert.ErrorIs(t, err, domain.ErrConflict)
		userRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Short Password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, _ := newAuthService(userRepo)

		_, _, err := svc.Register(ctx, "weak", "weak@test.com", "short", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	user := &domain.User{ID: 7, Email: "user@test.com", PasswordHash: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, tokens := newAuthService(userRepo)
		userRepo.On("GetByEmail", ctx, "user@test.com").Return(user, nil)

		token, err := svc.Login(ctx, "user@test.com", "correct-horse")
		require.NoError(t, err)
		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int32(7), claims.UserID)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, _ := newAuthService(userRepo)
		userRepo.On("GetByEmail", ctx, "user@test.com").Return(user, nil)

		_, err := svc.Login(ctx, "user@test.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc, _ := newAuthService(userRepo)
		userRepo.On("GetByEmail", ctx, "ghost@test.com").Return(nil, domain.ErrNotFound)

		_, err := svc.Login(ctx, "ghost@test.com", "whatever")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
