package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, owner_id, title, description, category, price, images, zip_code, latitude, longitude, status, created_on`

func scanItem(row rowScanner) (*domain.Item, error) {
	it := &domain.Item{}
	var lat, lon sql.NullFloat64
	err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
		&it.Price, pq.Array(&it.Images), &it.ZipCode, &lat, &lon, &it.Status, &it.CreatedOn)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		it.Latitude = &lat.Float64
	}
	if lon.Valid {
		it.Longitude = &lon.Float64
	}
	return it, nil
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `INSERT INTO items (owner_id, title, description, category, price, images, zip_code, latitude, longitude, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		it.OwnerID, it.Title, it.Description, it.Category, it.Price,
		pq.Array(it.Images), it.ZipCode, it.Latitude, it.Longitude, it.Status, time.Now(),
	).Scan(&it.ID, &it.CreatedOn)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item) error {
	query := `UPDATE items SET title = $1, description = $2, category = $3, price = $4, images = $5,
	          zip_code = $6, latitude = $7, longitude = $8, status = $9 WHERE id = $10`
	res, err := r.db.ExecContext(ctx, query,
		it.Title, it.Description, it.Category, it.Price, pq.Array(it.Images),
		it.ZipCode, it.Latitude, it.Longitude, it.Status, it.ID)
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

func (r *itemRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
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

func (r *itemRepository) CountByOwner(ctx context.Context, ownerID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM items WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *itemRepository) Search(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error) {
	sqlStr := `SELECT ` + itemColumns + ` FROM items WHERE status = $1`
	args := []any{domain.ItemStatusAvailable}
	argIdx := 2

	if query != "" {
		sqlStr += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+query+"%")
		argIdx++
	}
	if category != "" {
		sqlStr += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}
	if maxPrice > 0 {
		sqlStr += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, maxPrice)
		argIdx++
	}

	var count int32
	countSQL := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *it)
	}
	return items, count, rows.Err()
}

func (r *itemRepository) ListAvailableWithLocation(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1 AND latitude IS NOT NULL AND longitude IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query, domain.ItemStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *itemRepository) UpdateStatus(ctx context.Context, id int32, status domain.ItemStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE items SET status = $1 WHERE id = $2`, status, id)
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
