package postgres

import (
	"database/sql"

	"localloop-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store bundles the Postgres-backed repositories over one connection pool.
type Store struct {
	db *sql.DB

	Users        repository.UserRepository
	Items        repository.ItemRepository
	Transactions repository.TransactionRepository
	Transfers    repository.TransferRepository
	Reviews      repository.ReviewRepository
	ZipCodes     repository.ZipCodeRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Items:        NewItemRepository(db),
		Transactions: NewTransactionRepository(db),
		Transfers:    NewTransferRepository(db),
		Reviews:      NewReviewRepository(db),
		ZipCodes:     NewZipCodeRepository(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}
