package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type zipCodeRepository struct {
	db *sql.DB
}

func NewZipCodeRepository(db *sql.DB) repository.ZipCodeRepository {
	return &zipCodeRepository{db: db}
}

func (r *zipCodeRepository) GetByZip(ctx context.Context, zip string) (*domain.ZipCode, error) {
	z := &domain.ZipCode{}
	query := `SELECT zip, city, latitude, longitude FROM zip_codes WHERE zip = $1`
	err := r.db.QueryRowContext(ctx, query, zip).Scan(&z.Zip, &z.City, &z.Latitude, &z.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return z, nil
}

// BulkInsert loads the zip table in chunks; existing rows are overwritten so
// the loader can be re-run against a newer dataset.
func (r *zipCodeRepository) BulkInsert(ctx context.Context, codes []domain.ZipCode) error {
	const chunkSize = 500
	for start := 0; start < len(codes); start += chunkSize {
		end := start + chunkSize
		if end > len(codes) {
			end = len(codes)
		}
		chunk := codes[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*4)
		for i, z := range chunk {
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4))
			args = append(args, z.Zip, z.City, z.Latitude, z.Longitude)
		}

		query := `INSERT INTO zip_codes (zip, city, latitude, longitude) VALUES ` +
			strings.Join(placeholders, ", ") +
			` ON CONFLICT (zip) DO UPDATE SET city = EXCLUDED.city, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
