package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"localloop-backend/internal/domain"
	"localloop-backend/internal/logger"
	"localloop-backend/internal/pricing"
	"localloop-backend/internal/repository"
)

// EscrowAccountID is the platform account holding funds between the
// borrower's payment and the release to lender/borrower.
const EscrowAccountID int32 = 0

type transactionService struct {
	txRepo       repository.TransactionRepository
	itemRepo     repository.ItemRepository
	userRepo     repository.UserRepository
	transferRepo repository.TransferRepository
	gateway      PaymentGateway
	email        EmailService
	log          *slog.Logger
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	transferRepo repository.TransferRepository,
	gateway PaymentGateway,
	email EmailService,
) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		transferRepo: transferRepo,
		gateway:      gateway,
		email:        email,
		log:          logger.WithService("transaction"),
	}
}

// load fetches the transaction and checks the acting user is a party.
func (s *transactionService) load(ctx context.Context, userID, id int32) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.HasParty(userID) {
		return nil, fmt.Errorf("user %d is not a party of transaction %d: %w", userID, id, domain.ErrForbidden)
	}
	return t, nil
}

func (s *transactionService) loadAsLender(ctx context.Context, lenderID, id int32) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.LenderID != lenderID {
		return nil, fmt.Errorf("user %d is not the lender of transaction %d: %w", lenderID, id, domain.ErrForbidden)
	}
	return t, nil
}

func (s *transactionService) loadAsBorrower(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.BorrowerID != borrowerID {
		return nil, fmt.Errorf("user %d is not the borrower of transaction %d: %w", borrowerID, id, domain.ErrForbidden)
	}
	return t, nil
}

func invalidState(t *domain.Transaction, op string) error {
	return fmt.Errorf("cannot %s transaction %d in status %s: %w", op, t.ID, t.Status, domain.ErrInvalidState)
}

// cascadeItem mirrors a status transition onto the item. The item write is
// idempotent and runs after the transaction commit; a failure is surfaced to
// the caller without reverting the committed transition.
func (s *transactionService) cascadeItem(ctx context.Context, t *domain.Transaction, status domain.ItemStatus) error {
	if err := s.itemRepo.UpdateStatus(ctx, t.ItemID, status); err != nil {
		s.log.Error("item status cascade failed",
			"transaction_id", t.ID, "item_id", t.ItemID, "item_status", status, "error", err)
		return fmt.Errorf("transaction %d is %s but item %d status update failed: %w", t.ID, t.Status, t.ItemID, err)
	}
	return nil
}

// performTransfer claims the (transaction, purpose) slot, runs the gateway
// transfer and marks the record complete. The claim makes concurrent callers
// single-winner before any money moves; a gateway failure releases the slot so
// the operation can be retried. Zero-amount legs keep the claim but skip the
// gateway.
func (s *transactionService) performTransfer(ctx context.Context, t *domain.Transaction, purpose domain.TransferPurpose, fromUserID, toUserID int32, amount float64, memo string) error {
	rec := &domain.TransferRecord{
		TransactionID: t.ID,
		Purpose:       purpose,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		Amount:        amount,
	}
	if err := s.transferRepo.Begin(ctx, rec); err != nil {
		return err
	}

	ref := ""
	if amount > 0 {
		res, err := s.gateway.Transfer(ctx, fromUserID, toUserID, amount, memo)
		if err != nil {
			if abortErr := s.transferRepo.Abort(ctx, rec.ID); abortErr != nil {
				s.log.Error("failed to release transfer claim after gateway failure",
					"transaction_id", t.ID, "purpose", purpose, "error", abortErr)
			}
			return fmt.Errorf("%w: %v", domain.ErrGateway, err)
		}
		ref = res.TransferID
	}
	return s.transferRepo.Complete(ctx, rec.ID, ref)
}

func (s *transactionService) notify(t *domain.Transaction, send func() error) {
	if err := send(); err != nil {
		s.log.Warn("notification email failed", "transaction_id", t.ID, "error", err)
	}
}

func (s *transactionService) RequestLend(ctx context.Context, borrowerID int32, in RequestLendInput) (*domain.Transaction, error) {
	if in.RequestedTo.Before(in.RequestedFrom) {
		return nil, fmt.Errorf("requested_to must not precede requested_from: %w", domain.ErrValidation)
	}

	item, err := s.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == borrowerID {
		return nil, fmt.Errorf("cannot borrow your own item: %w", domain.ErrForbidden)
	}
	switch item.Status {
	case domain.ItemStatusAvailable, domain.ItemStatusRequested:
	default:
		return nil, fmt.Errorf("item %d is %s and cannot be requested: %w", item.ID, item.Status, domain.ErrInvalidState)
	}

	pending, err := s.txRepo.HasPendingRequest(ctx, item.ID, borrowerID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("a pending request for item %d already exists: %w", item.ID, domain.ErrConflict)
	}

	t := &domain.Transaction{
		ItemID:        item.ID,
		LenderID:      item.OwnerID,
		BorrowerID:    borrowerID,
		Status:        domain.TransactionStatusRequested,
		RequestedFrom: in.RequestedFrom,
		RequestedTo:   in.RequestedTo,
		Message:       in.Message,
		RequestDate:   time.Now(),
	}
	if err := s.txRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusRequested); err != nil {
		return t, err
	}
	s.log.Info("lend requested", "transaction_id", t.ID, "item_id", item.ID, "borrower_id", borrowerID)

	if lender, err := s.userRepo.GetByID(ctx, t.LenderID); err == nil {
		borrowerName := fmt.Sprintf("user %d", borrowerID)
		if borrower, err := s.userRepo.GetByID(ctx, borrowerID); err == nil {
			borrowerName = borrower.Username
		}
		s.notify(t, func() error {
			return s.email.SendRequestNotification(ctx, lender.Email, borrowerName, item.Title)
		})
	}
	return t, nil
}

func (s *transactionService) Accept(ctx context.Context, lenderID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusRequested {
		return nil, invalidState(t, "accept")
	}

	t.Status = domain.TransactionStatusAccepted
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusRequested); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusLent); err != nil {
		return t, err
	}
	s.log.Info("request accepted", "transaction_id", t.ID, "lender_id", lenderID)

	s.notifyParty(ctx, t, t.BorrowerID, func(to *domain.User) error {
		lenderName := fmt.Sprintf("user %d", lenderID)
		if lender, err := s.userRepo.GetByID(ctx, lenderID); err == nil {
			lenderName = lender.Username
		}
		return s.email.SendAcceptanceNotification(ctx, to.Email, s.itemTitle(ctx, t), lenderName)
	})
	return t, nil
}

func (s *transactionService) Decline(ctx context.Context, lenderID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusRequested {
		return nil, invalidState(t, "decline")
	}

	t.Status = domain.TransactionStatusRejected
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusRequested); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusAvailable); err != nil {
		return t, err
	}
	s.log.Info("request declined", "transaction_id", t.ID, "lender_id", lenderID)

	s.notifyParty(ctx, t, t.BorrowerID, func(to *domain.User) error {
		return s.email.SendDeclineNotification(ctx, to.Email, s.itemTitle(ctx, t))
	})
	return t, nil
}

func (s *transactionService) Renegotiate(ctx context.Context, userID, id int32, in RenegotiateInput) (*domain.Transaction, error) {
	t, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case domain.TransactionStatusRequested, domain.TransactionStatusAccepted:
	default:
		return nil, invalidState(t, "renegotiate")
	}
	if in.ProposedTo.Before(in.ProposedFrom) {
		return nil, fmt.Errorf("proposed_to must not precede proposed_from: %w", domain.ErrValidation)
	}

	observed := t.Status
	t.Status = domain.TransactionStatusRenegotiationRequested
	t.Renegotiation = &domain.Renegotiation{
		ProposedFrom: in.ProposedFrom,
		ProposedTo:   in.ProposedTo,
		Message:      in.Message,
	}
	if err := s.txRepo.Transition(ctx, t, observed); err != nil {
		return nil, err
	}
	s.log.Info("renegotiation proposed", "transaction_id", t.ID, "user_id", userID)
	return t, nil
}

func (s *transactionService) AcceptRenegotiation(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusRenegotiationRequested || t.Renegotiation == nil {
		return nil, invalidState(t, "accept renegotiation for")
	}

	t.RequestedFrom = t.Renegotiation.ProposedFrom
	t.RequestedTo = t.Renegotiation.ProposedTo
	t.Renegotiation = nil
	t.Status = domain.TransactionStatusAccepted
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusRenegotiationRequested); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusLent); err != nil {
		return t, err
	}
	s.log.Info("renegotiation accepted", "transaction_id", t.ID)
	return t, nil
}

func (s *transactionService) DeclineRenegotiation(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusRenegotiationRequested {
		return nil, invalidState(t, "decline renegotiation for")
	}

	t.Renegotiation = nil
	t.Status = domain.TransactionStatusRejected
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusRenegotiationRequested); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusAvailable); err != nil {
		return t, err
	}
	s.log.Info("renegotiation declined", "transaction_id", t.ID)
	return t, nil
}

func (s *transactionService) Edit(ctx context.Context, borrowerID, id int32, in EditInput) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case domain.TransactionStatusRequested, domain.TransactionStatusAccepted:
	default:
		return nil, invalidState(t, "edit")
	}
	if in.RequestedTo.Before(in.RequestedFrom) {
		return nil, fmt.Errorf("requested_to must not precede requested_from: %w", domain.ErrValidation)
	}

	t.RequestedFrom = in.RequestedFrom
	t.RequestedTo = in.RequestedTo
	if in.Message != "" {
		t.Message = in.Message
	}
	if err := s.txRepo.Transition(ctx, t, t.Status); err != nil {
		return nil, err
	}
	s.log.Info("transaction edited", "transaction_id", t.ID)
	return t, nil
}

func (s *transactionService) Retract(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case domain.TransactionStatusRequested,
		domain.TransactionStatusAccepted,
		domain.TransactionStatusRenegotiationRequested,
		domain.TransactionStatusPaid:
	default:
		return nil, invalidState(t, "retract")
	}

	// A paid retraction returns the full escrowed amount. Unlike the other
	// money-moving transitions, the refund runs AFTER the status commit:
	// the pickup path races this one on the same row, and a lost commit
	// here must cost only the claim, never money already sent. The claim
	// is taken first so the refund survives a crash (the reconciliation
	// job completes any pending retraction refund).
	refund := t.Status == domain.TransactionStatusPaid && t.TotalAmount > 0
	var rec *domain.TransferRecord
	if refund {
		rec = &domain.TransferRecord{
			TransactionID: t.ID,
			Purpose:       domain.TransferPurposeRetractionRefund,
			FromUserID:    EscrowAccountID,
			ToUserID:      t.BorrowerID,
			Amount:        t.TotalAmount,
		}
		if err := s.transferRepo.Begin(ctx, rec); err != nil {
			return nil, err
		}
	}

	observed := t.Status
	t.Renegotiation = nil
	t.Status = domain.TransactionStatusRetracted
	if refund {
		t.DepositReturned = true
		t.DepositRefundPercentage = 100
	}
	if err := s.txRepo.Transition(ctx, t, observed); err != nil {
		if refund {
			if abortErr := s.transferRepo.Abort(ctx, rec.ID); abortErr != nil {
				s.log.Error("failed to release retraction refund claim",
					"transaction_id", t.ID, "error", abortErr)
			}
		}
		return nil, err
	}

	if refund {
		res, err := s.gateway.Transfer(ctx, EscrowAccountID, t.BorrowerID, t.TotalAmount,
			fmt.Sprintf("retraction refund for transaction %d", t.ID))
		if err != nil {
			// The retraction is committed and the claim stays pending;
			// the reconciliation job retries the refund.
			s.log.Error("retraction refund transfer failed",
				"transaction_id", t.ID, "amount", t.TotalAmount, "error", err)
			return nil, fmt.Errorf("transaction %d retracted but escrow refund is pending: %w", t.ID, domain.ErrGateway)
		}
		if err := s.transferRepo.Complete(ctx, rec.ID, res.TransferID); err != nil {
			return nil, err
		}
	}

	if err := s.cascadeItem(ctx, t, domain.ItemStatusAvailable); err != nil {
		return t, err
	}
	s.log.Info("transaction retracted", "transaction_id", t.ID, "from_status", observed)
	return t, nil
}

// freezeFinancials computes and stores the financial snapshot on t. It does
// not persist; callers commit via Transition.
func (s *transactionService) freezeFinancials(ctx context.Context, t *domain.Transaction) error {
	item, err := s.itemRepo.GetByID(ctx, t.ItemID)
	if err != nil {
		return err
	}
	borrower, err := s.userRepo.GetByID(ctx, t.BorrowerID)
	if err != nil {
		return err
	}

	rate := pricing.DiscountRateFor(borrower)
	quote, err := pricing.Calculate(item.Price, &t.RequestedFrom, &t.RequestedTo, rate)
	if err != nil {
		return err
	}

	t.OriginalLendingFee = quote.OriginalPrice
	t.FinalLendingFee = quote.FinalPrice
	t.DiscountRate = rate
	t.DiscountApplied = rate > 0
	t.IsPremiumTransaction = quote.IsPremium
	t.DepositAmount = pricing.Round2(item.Price * pricing.DepositMultiplier)
	t.TotalAmount = pricing.Round2(t.FinalLendingFee + t.DepositAmount)
	return nil
}

func (s *transactionService) CompletePayment(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusAccepted {
		return nil, invalidState(t, "complete payment for")
	}

	if err := s.freezeFinancials(ctx, t); err != nil {
		return nil, err
	}
	t.Status = domain.TransactionStatusPaid
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusAccepted); err != nil {
		return nil, err
	}
	s.log.Info("payment completed", "transaction_id", t.ID,
		"total_amount", t.TotalAmount, "deposit", t.DepositAmount, "premium", t.IsPremiumTransaction)
	return t, nil
}

func (s *transactionService) GeneratePickupCode(ctx context.Context, borrowerID, id int32) (string, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return "", err
	}
	if t.Status != domain.TransactionStatusPaid {
		return "", invalidState(t, "generate a pickup code for")
	}
	if t.PickupCodeUsed {
		return "", fmt.Errorf("pickup code for transaction %d was already used: %w", t.ID, domain.ErrConflict)
	}
	if t.PickupCode != "" {
		return t.PickupCode, nil
	}

	code, err := newHandoffCode()
	if err != nil {
		return "", err
	}
	if err := s.txRepo.SetPickupCode(ctx, t.ID, code); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		// A concurrent issuer won; hand out the code it stored.
		if t, err = s.txRepo.GetByID(ctx, id); err != nil {
			return "", err
		}
		if t.PickupCode == "" {
			return "", invalidState(t, "generate a pickup code for")
		}
		return t.PickupCode, nil
	}
	s.log.Info("pickup code issued", "transaction_id", t.ID)
	return code, nil
}

func (s *transactionService) UsePickupCode(ctx context.Context, lenderID, id int32, code string) (*domain.Transaction, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusPaid {
		return nil, invalidState(t, "redeem a pickup code for")
	}
	if t.PickupCodeUsed {
		return nil, fmt.Errorf("pickup code for transaction %d was already used: %w", t.ID, domain.ErrConflict)
	}
	if t.PickupCode == "" || code != t.PickupCode {
		return nil, fmt.Errorf("pickup code does not match: %w", domain.ErrValidation)
	}

	return s.handOver(ctx, t, domain.TransactionStatusPaid)
}

func (s *transactionService) ForcePickup(ctx context.Context, borrowerID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case domain.TransactionStatusPaid:
	case domain.TransactionStatusAccepted:
		// Pickup without a recorded payment still freezes the financial
		// snapshot so the payout and deposit resolution have amounts.
		if err := s.freezeFinancials(ctx, t); err != nil {
			return nil, err
		}
	default:
		return nil, invalidState(t, "force pickup for")
	}
	return s.handOver(ctx, t, t.Status)
}

// handOver moves the transaction into borrowed: the lender's share is
// released from escrow first, then the status commit. The transfer claim
// makes concurrent pickups single-winner; a crash between transfer and
// commit leaves a dangling record the reconciliation job repairs.
func (s *transactionService) handOver(ctx context.Context, t *domain.Transaction, observed domain.TransactionStatus) (*domain.Transaction, error) {
	err := s.performTransfer(ctx, t, domain.TransferPurposeLenderPayout,
		EscrowAccountID, t.LenderID, t.FinalLendingFee,
		fmt.Sprintf("lending fee payout for transaction %d", t.ID))
	if err != nil {
		return nil, err
	}

	t.Status = domain.TransactionStatusBorrowed
	t.PickupCodeUsed = true
	t.PaymentToLenderReleased = true
	if err := s.txRepo.Transition(ctx, t, observed); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusBorrowed); err != nil {
		return t, err
	}
	s.log.Info("item handed over", "transaction_id", t.ID, "payout", t.FinalLendingFee)
	return t, nil
}

func (s *transactionService) GenerateReturnCode(ctx context.Context, lenderID, id int32) (string, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return "", err
	}
	if t.Status != domain.TransactionStatusBorrowed {
		return "", invalidState(t, "generate a return code for")
	}
	if t.ReturnCodeUsed {
		return "", fmt.Errorf("return code for transaction %d was already used: %w", t.ID, domain.ErrConflict)
	}
	if t.ReturnCode != "" {
		return t.ReturnCode, nil
	}

	code, err := newHandoffCode()
	if err != nil {
		return "", err
	}
	if err := s.txRepo.SetReturnCode(ctx, t.ID, code); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
		if t, err = s.txRepo.GetByID(ctx, id); err != nil {
			return "", err
		}
		if t.ReturnCode == "" {
			return "", invalidState(t, "generate a return code for")
		}
		return t.ReturnCode, nil
	}
	s.log.Info("return code issued", "transaction_id", t.ID)
	return code, nil
}

func (s *transactionService) SubmitReturnCode(ctx context.Context, borrowerID, id int32, code string) (*domain.Transaction, error) {
	t, err := s.loadAsBorrower(ctx, borrowerID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusBorrowed {
		return nil, invalidState(t, "submit a return code for")
	}
	if t.ReturnCodeUsed {
		return nil, fmt.Errorf("return code for transaction %d was already used: %w", t.ID, domain.ErrConflict)
	}
	if t.ReturnCode == "" || code != t.ReturnCode {
		return nil, fmt.Errorf("return code does not match: %w", domain.ErrValidation)
	}

	t.ReturnCodeUsed = true
	return s.takeBack(ctx, t)
}

func (s *transactionService) ForceCompleteReturn(ctx context.Context, lenderID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusBorrowed {
		return nil, invalidState(t, "force return for")
	}
	return s.takeBack(ctx, t)
}

// takeBack moves the transaction into returned. The deposit stays in escrow
// until the lender resolves it via ReportDamage or ConfirmNoDamage.
func (s *transactionService) takeBack(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	now := time.Now()
	t.Status = domain.TransactionStatusReturned
	t.ReturnDate = &now
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusBorrowed); err != nil {
		return nil, err
	}
	if err := s.cascadeItem(ctx, t, domain.ItemStatusAvailable); err != nil {
		return t, err
	}
	s.log.Info("item returned", "transaction_id", t.ID)
	return t, nil
}

func (s *transactionService) ReportDamage(ctx context.Context, lenderID, id int32, description string, refundPercentage float64) (*domain.Transaction, error) {
	if description == "" {
		return nil, fmt.Errorf("damage description is required: %w", domain.ErrValidation)
	}
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusReturned {
		return nil, invalidState(t, "report damage for")
	}
	if t.DepositReturned {
		return nil, fmt.Errorf("deposit for transaction %d was already resolved: %w", t.ID, domain.ErrConflict)
	}

	split, err := pricing.SplitDeposit(t.DepositAmount, refundPercentage)
	if err != nil {
		return nil, err
	}

	t.DamageReported = true
	t.DamageDescription = description
	t.DepositRefundPercentage = refundPercentage
	return s.resolveDeposit(ctx, t, split)
}

func (s *transactionService) ConfirmNoDamage(ctx context.Context, lenderID, id int32) (*domain.Transaction, error) {
	t, err := s.loadAsLender(ctx, lenderID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TransactionStatusReturned {
		return nil, invalidState(t, "confirm no damage for")
	}
	if t.DepositReturned {
		return nil, fmt.Errorf("deposit for transaction %d was already resolved: %w", t.ID, domain.ErrConflict)
	}

	t.DepositRefundPercentage = 100
	return s.resolveDeposit(ctx, t, pricing.DepositSplit{ToBorrower: t.DepositAmount})
}

// resolveDeposit releases the held deposit and completes the transaction.
// The DEPOSIT_REFUND claim is taken even when the borrower leg is zero, so a
// concurrent damage report and no-damage confirmation cannot both pay out.
func (s *transactionService) resolveDeposit(ctx context.Context, t *domain.Transaction, split pricing.DepositSplit) (*domain.Transaction, error) {
	err := s.performTransfer(ctx, t, domain.TransferPurposeDepositRefund,
		EscrowAccountID, t.BorrowerID, split.ToBorrower,
		fmt.Sprintf("deposit refund for transaction %d", t.ID))
	if err != nil {
		return nil, err
	}
	if split.ToLender > 0 {
		err = s.performTransfer(ctx, t, domain.TransferPurposeDamageCompensation,
			EscrowAccountID, t.LenderID, split.ToLender,
			fmt.Sprintf("damage compensation for transaction %d", t.ID))
		if err != nil {
			return nil, err
		}
	}

	t.DepositReturned = true
	t.Status = domain.TransactionStatusCompleted
	if err := s.txRepo.Transition(ctx, t, domain.TransactionStatusReturned); err != nil {
		return nil, err
	}
	s.log.Info("deposit resolved", "transaction_id", t.ID,
		"to_borrower", split.ToBorrower, "to_lender", split.ToLender, "damage", t.DamageReported)

	s.notifyParty(ctx, t, t.BorrowerID, func(to *domain.User) error {
		return s.email.SendCompletionNotification(ctx, to.Email, s.itemTitle(ctx, t), split.ToBorrower)
	})
	return t, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, id int32) (*domain.Transaction, error) {
	return s.load(ctx, userID, id)
}

func (s *transactionService) ListBorrowings(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	return s.txRepo.ListByBorrower(ctx, userID)
}

func (s *transactionService) ListLendings(ctx context.Context, userID int32) ([]domain.Transaction, error) {
	return s.txRepo.ListByLender(ctx, userID)
}

func (s *transactionService) GetPaymentSummary(ctx context.Context, userID, id int32) (*PaymentSummary, error) {
	t, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, t.ItemID)
	if err != nil {
		return nil, err
	}

	summary := &PaymentSummary{
		ID:          t.ID,
		ItemTitle:   item.Title,
		ItemPrice:   item.Price,
		Status:      t.Status,
		RequestDate: t.RequestDate,
	}
	if borrower, err := s.userRepo.GetByID(ctx, t.BorrowerID); err == nil {
		summary.Borrower = borrower.Username
	}
	if lender, err := s.userRepo.GetByID(ctx, t.LenderID); err == nil {
		summary.Lender = lender.Username
	}
	return summary, nil
}

func (s *transactionService) GetFinancials(ctx context.Context, userID, id int32) (*Financials, error) {
	t, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.ListByTransaction(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &Financials{
		DepositAmount:           t.DepositAmount,
		TotalAmount:             t.TotalAmount,
		OriginalLendingFee:      t.OriginalLendingFee,
		FinalLendingFee:         t.FinalLendingFee,
		DiscountApplied:         t.DiscountApplied,
		DiscountRate:            t.DiscountRate,
		IsPremiumTransaction:    t.IsPremiumTransaction,
		DepositReturned:         t.DepositReturned,
		DepositRefundPercentage: t.DepositRefundPercentage,
		PaymentToLenderReleased: t.PaymentToLenderReleased,
		Transfers:               transfers,
	}, nil
}

// notifyParty loads the recipient and sends best-effort.
func (s *transactionService) notifyParty(ctx context.Context, t *domain.Transaction, userID int32, send func(*domain.User) error) {
	to, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("notification recipient lookup failed", "transaction_id", t.ID, "user_id", userID, "error", err)
		return
	}
	s.notify(t, func() error { return send(to) })
}

func (s *transactionService) itemTitle(ctx context.Context, t *domain.Transaction) string {
	item, err := s.itemRepo.GetByID(ctx, t.ItemID)
	if err != nil {
		return fmt.Sprintf("item %d", t.ItemID)
	}
	return item.Title
}
