package jobs_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/service"
)

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	return m.Called(ctx, tx).Error(0)
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) ListByLender(ctx context.Context, lenderID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, lenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) Transition(ctx context.Context, tx *domain.Transaction, observed domain.TransactionStatus) error {
	return m.Called(ctx, tx, observed).Error(0)
}

func (m *MockTransactionRepo) SetPickupCode(ctx context.Context, id int32, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *MockTransactionRepo) SetReturnCode(ctx context.Context, id int32, code string) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *MockTransactionRepo) SetReviewFlag(ctx context.Context, id int32, lender bool) error {
	return m.Called(ctx, id, lender).Error(0)
}

type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemRepo) CountByOwner(ctx context.Context, ownerID int32) (int32, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockItemRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepo) Search(ctx context.Context, query, category string, maxPrice float64, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, query, category, maxPrice, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}

func (m *MockItemRepo) ListAvailableWithLocation(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockItemRepo) UpdateStatus(ctx context.Context, id int32, status domain.ItemStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
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
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) DowngradeExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockTransferRepo struct {
	mock.Mock
}

func (m *MockTransferRepo) Begin(ctx context.Context, rec *domain.TransferRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockTransferRepo) Complete(ctx context.Context, id int32, gatewayRef string) error {
	return m.Called(ctx, id, gatewayRef).Error(0)
}

func (m *MockTransferRepo) Abort(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTransferRepo) ListByTransaction(ctx context.Context, transactionID int32) ([]domain.TransferRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

func (m *MockTransferRepo) ListDangling(ctx context.Context) ([]domain.TransferRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransferRecord), args.Error(1)
}

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

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRequestNotification(ctx context.Context, toEmail, borrowerName, itemTitle string) error {
	return m.Called(ctx, toEmail, borrowerName, itemTitle).Error(0)
}

func (m *MockEmailService) SendAcceptanceNotification(ctx context.Context, toEmail, itemTitle, lenderName string) error {
	return m.Called(ctx, toEmail, itemTitle, lenderName).Error(0)
}

func (m *MockEmailService) SendDeclineNotification(ctx context.Context, toEmail, itemTitle string) error {
	return m.Called(ctx, toEmail, itemTitle).Error(0)
}

func (m *MockEmailService) SendCompletionNotification(ctx context.Context, toEmail, itemTitle string, refundAmount float64) error {
	return m.Called(ctx, toEmail, itemTitle, refundAmount).Error(0)
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, toEmail, itemTitle string, dueSince time.Time) error {
	return m.Called(ctx, toEmail, itemTitle, dueSince).Error(0)
}
