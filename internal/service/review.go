package service

import (
	"context"
	"fmt"
	"log/slog"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	txRepo     repository.TransactionRepository
	log        *slog.Logger
}

func NewReviewService(reviewRepo repository.ReviewRepository, txRepo repository.TransactionRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		txRepo:     txRepo,
		log:        logger.WithService("review"),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, reviewerID, transactionID int32, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrValidation)
	}

	t, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !t.HasParty(reviewerID) {
		return nil, fmt.Errorf("user %d is not a party of transaction %d: %w", reviewerID, transactionID, domain.ErrForbidden)
	}
	if t.Status != domain.TransactionStatusCompleted {
		return nil, fmt.Errorf("transaction %d is not completed: %w", transactionID, domain.ErrInvalidState)
	}

	isLender := reviewerID == t.LenderID
	if (isLender && t.LenderReviewed) || (!isLender && t.BorrowerReviewed) {
		return nil, fmt.Errorf("transaction %d was already reviewed by this party: %w", transactionID, domain.ErrConflict)
	}

	// Claim the reviewed flag first so a concurrent duplicate loses before
	// any review row exists.
	if err := s.txRepo.SetReviewFlag(ctx, transactionID, isLender); err != nil {
		return nil, err
	}

	revieweeID := t.LenderID
	if isLender {
		revieweeID = t.BorrowerID
	}
	review := &domain.Review{
		TransactionID: transactionID,
		ReviewerID:    reviewerID,
		RevieweeID:    revieweeID,
		Rating:        rating,
		Comment:       comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.log.Info("review created", "review_id", review.ID, "transaction_id", transactionID, "rating", rating)
	return review, nil
}

func (s *reviewService) ListForTransaction(ctx context.Context, userID, transactionID int32) ([]domain.Review, error) {
	t, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !t.HasParty(userID) {
		return nil, fmt.Errorf("user %d is not a party of transaction %d: %w", userID, transactionID, domain.ErrForbidden)
	}
	return s.reviewRepo.ListByTransaction(ctx, transactionID)
}

func (s *reviewService) ListForUser(ctx context.Context, userID int32) ([]domain.Review, error) {
	return s.reviewRepo.ListByReviewee(ctx, userID)
}
