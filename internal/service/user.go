package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/pricing"
	"localloop-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	log      *slog.Logger
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		log:      logger.WithService("user"),
	}
}

func (s *userService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, username, email, zipCode string) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if username != "" {
		u.Username = username
	}
	if email != "" {
		u.Email = email
	}
	if zipCode != "" {
		u.ZipCode = zipCode
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("profile updated", "user_id", userID)
	return u, nil
}

func (s *userService) UpgradeToPremium(ctx context.Context, userID int32, months int) (*domain.User, error) {
	if months < 1 {
		months = 1
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Renewal extends from the current expiry, a fresh upgrade from now.
	base := time.Now()
	if u.IsPremium() && u.PremiumExpiresOn != nil && u.PremiumExpiresOn.After(base) {
		base = *u.PremiumExpiresOn
	}
	expiry := base.AddDate(0, months, 0)

	u.Subscription = domain.SubscriptionPremium
	u.PremiumExpiresOn = &expiry
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("premium subscription updated", "user_id", userID, "expires_on", expiry)
	return u, nil
}

func (s *userService) CancelPremium(ctx context.Context, userID int32) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Subscription != domain.SubscriptionPremium {
		return nil, fmt.Errorf("user %d has no premium subscription: %w", userID, domain.ErrInvalidState)
	}

	u.Subscription = domain.SubscriptionFree
	u.PremiumExpiresOn = nil
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("premium subscription cancelled", "user_id", userID)
	return u, nil
}

// PricingPreview quotes a lending fee for the caller's tier without touching
// any transaction.
func (s *userService) PricingPreview(ctx context.Context, userID int32, weeklyRate float64, from, to *time.Time) (*pricing.Quote, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("end date must not precede start date: %w", domain.ErrValidation)
	}
	quote, err := pricing.Calculate(weeklyRate, from, to, pricing.DiscountRateFor(u))
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
