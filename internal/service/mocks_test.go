package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/service"
)

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) HasPendingRequest(ctx context.Context, itemID, borrowerID int32) (bool, error) {
	args := m.Called(ctx, itemID, borrowerID)
	return args.Bool(0), args.Error(1)
}
func (m *MockTransactionRepo) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByLender(ctx context.Context, lenderID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, lenderID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) Transition(ctx context.Context, tx *domain.Transaction, observed domain.TransactionStatus) error {
	args := m.Called(ctx, tx, observed)
	return args.Error(0)
}
func (m *MockTransactionRepo) SetPickupCode(ctx context.Context, id int32, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}
func (m *MockTransactionRepo) SetReturnCode(ctx context.Context, id int32, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}
func (m *MockTransactionRepo) SetReviewFlag(ctx context.Context, id int32, lender bool) error {
	args := m.Called(ctx, id, lender)
	return args.Error(0)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockItemRepo) CountByOwner(ctx context.Context, ownerID int32) (int32, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockItemRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) Search(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, query, category, maxPrice, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemRepo) ListAvailableWithLocation(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) UpdateStatus(ctx context.Context, id int32, status domain.ItemStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) DowngradeExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransferRepo
type MockTransferRepo struct {
	mock.Mock
}

func (m *MockTransferRepo) Begin(ctx context.Context, rec *domain.TransferRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockTransferRepo) Complete(ctx context.Context, id int32, gatewayRef string) error {
	args := m.Called(ctx, id, gatewayRef)
	return args.Error(0)
}
func (m *MockTransferRepo) Abort(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransferRepo) ListByTransaction(ctx context.Context, transactionID int32) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}
func (m *MockTransferRepo) ListDangling(ctx context.Context) ([]domain.TransferRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) ListByTransaction(ctx context.Context, transactionID int32) ([]domain.Review, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByReviewee(ctx context.Context, revieweeID int32) ([]domain.Review, error) {
	args := m.Called(ctx, revieweeID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Transfer(ctx context.Context, fromUserID, toUserID int32, amount float64, memo string) (*service.TransferResult, error) {
	args := m.Called(ctx, fromUserID, toUserID, amount, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransferResult), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRequestNotification(ctx context.Context, toEmail, borrowerName, itemTitle string) error {
	args := m.Called(ctx, toEmail, borrowerName, itemTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendAcceptanceNotification(ctx context.Context, toEmail, itemTitle, lenderName string) error {
	args := m.Called(ctx, toEmail, itemTitle, lenderName)
	return args.Error(0)
}
func (m *MockEmailService) SendDeclineNotification(ctx context.Context, toEmail, itemTitle string) error {
	args := m.Called(ctx, toEmail, itemTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendCompletionNotification(ctx context.Context, toEmail, itemTitle string, refundAmount float64) error {
	args := m.Called(ctx, toEmail, itemTitle, refundAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, toEmail, itemTitle string, dueSince time.Time) error {
	args := m.Called(ctx, toEmail, itemTitle, dueSince)
	return args.Error(0)
}
