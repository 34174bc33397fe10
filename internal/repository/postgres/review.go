package postgres

import (
	"context"
	"database/sql"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (transaction_id, reviewer_id, reviewee_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		rv.TransactionID, rv.ReviewerID, rv.RevieweeID, rv.Rating, rv.Comment, time.Now(),
	).Scan(&rv.ID, &rv.CreatedOn)
}

func (r *reviewRepository) ListByTransaction(ctx context.Context, transactionID int32) ([]domain.Review, error) {
	query := `SELECT id, transaction_id, reviewer_id, reviewee_id, rating, comment, created_on
	          FROM reviews WHERE transaction_id = $1 ORDER BY created_on`
	return r.list(ctx, query, transactionID)
}

func (r *reviewRepository) ListByReviewee(ctx context.Context, revieweeID int32) ([]domain.Review, error) {
	query := `SELECT id, transaction_id, reviewer_id, reviewee_id, rating, comment, created_on
	          FROM reviews WHERE reviewee_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, revieweeID)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.TransactionID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
