package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, zip_code, subscription, premium_expires_on, created_on, updated_on`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var premiumExpires sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ZipCode,
		&u.Subscription, &premiumExpires, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if premiumExpires.Valid {
		u.PremiumExpiresOn = &premiumExpires.Time
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, zip_code, subscription, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_on, updated_on`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.ZipCode, u.Subscription, now, now,
	).Scan(&u.ID, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET username = $1, email = $2, password_hash = $3, zip_code = $4,
	          subscription = $5, premium_expires_on = $6, updated_on = $7 WHERE id = $8`
	var premiumExpires sql.NullTime
	if u.PremiumExpiresOn != nil {
		premiumExpires = sql.NullTime{Time: *u.PremiumExpiresOn, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.ZipCode, u.Subscription, premiumExpires, time.Now(), u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) DowngradeExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE users SET subscription = $1, premium_expires_on = NULL, updated_on = $2
	          WHERE subscription = $3 AND premium_expires_on IS NOT NULL AND premium_expires_on < $4`
	res, err := r.db.ExecContext(ctx, query, domain.SubscriptionFree, now, domain.SubscriptionPremium, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
