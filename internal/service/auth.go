package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/repository"
	"localloop-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	log      *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      logger.WithService("auth"),
	}
}

func (s *authService) Register(ctx context.Context, username, email, password, zipCode string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, "", fmt.Errorf("username and email are required: %w", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address: %w", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters: %w", domain.ErrValidation)
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("email %s is already registered: %w", email, domain.ErrConflict)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		ZipCode:      strings.TrimSpace(zipCode),
		Subscription: domain.SubscriptionFree,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("invalid credentials: %w", domain.ErrForbidden)
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", "user_id", u.ID)
		return "", fmt.Errorf("invalid credentials: %w", domain.ErrForbidden)
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return "", err
	}
	s.log.Info("user logged in", "user_id", u.ID)
	return token, nil
}
