package service

import (
	"context"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type renewalService struct {
	renewRepo  repository.RenewRepository
	txnRepo    repository.TransactionRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
	locks      *keylock.KeyLock
	loanPeriod time.Duration
}

func NewRenewalService(
	renewRepo repository.RenewRepository,
	txnRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	locks *keylock.KeyLock,
	loanPeriodDays int,
) RenewalService {
	return &renewalService{
		renewRepo:  renewRepo,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
		locks:      locks,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
	}
}

// Request opens a renewal on an outstanding borrow. At most one REQUEST renew
// may exist per transaction; the partial unique index backs up this check
// against concurrent duplicates.
func (s *renewalService) Request(ctx context.Context, transactionID int32) (*domain.Renew, error) {
	key := txnKey(transactionID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("transaction lookup: %w", err)
	}
	if txn.Status != domain.TransactionStatusBorrow {
		return nil, domain.ConflictError("transaction is already returned")
	}

	pending, err := s.renewRepo.HasPendingForTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ConflictError("a renewal request is already pending for this transaction")
	}

	renew := &domain.Renew{
		TransactionID: transactionID,
		Status:        domain.RenewStatusRequest,
		RequestedOn:   time.Now(),
	}
	if err := s.renewRepo.Create(ctx, renew); err != nil {
		return nil, err
	}

	logger.Info("Renewal requested", "renew_id", renew.ID, "transaction_id", transactionID)
	return renew, nil
}

func (s *renewalService) List(ctx context.Context) ([]domain.Renew, error) {
	return s.renewRepo.List(ctx)
}

// Decide settles a pending renew. Approval extends the transaction's due date
// by exactly one loan period; the REQUEST guard in the repository means a
// replayed decision cannot extend it twice.
func (s *renewalService) Decide(ctx context.Context, renewID int32, decision domain.RenewStatus) (*domain.Renew, error) {
	if decision != domain.RenewStatusApproved && decision != domain.RenewStatusRejected {
		return nil, domain.BadRequestError(fmt.Sprintf("decision must be APPROVED or REJECTED, got %q", decision))
	}

	renew, err := s.renewRepo.GetByID(ctx, renewID)
	if err != nil {
		return nil, fmt.Errorf("renew lookup: %w", err)
	}
	if renew.Status != domain.RenewStatusRequest {
		return nil, domain.TransitionError("renew", string(renew.Status), string(decision))
	}

	key := txnKey(renew.TransactionID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.renewRepo.Decide(ctx, renewID, decision, time.Now()); err != nil {
		return nil, err
	}

	if decision == domain.RenewStatusApproved {
		txn, err := s.txnRepo.GetByID(ctx, renew.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("transaction lookup: %w", err)
		}
		newDue := txn.DueDate.Add(s.loanPeriod)
		if err := s.txnRepo.UpdateDueDate(ctx, txn.ID, newDue); err != nil {
			return nil, err
		}
		logger.Info("Renewal approved", "renew_id", renewID,
			"transaction_id", txn.ID, "new_due_date", newDue)
		s.notifyDecision(ctx, txn, true, newDue)
	} else {
		logger.Info("Renewal rejected", "renew_id", renewID, "transaction_id", renew.TransactionID)
		if txn, err := s.txnRepo.GetByID(ctx, renew.TransactionID); err == nil {
			s.notifyDecision(ctx, txn, false, txn.DueDate)
		}
	}

	return s.renewRepo.GetByID(ctx, renewID)
}

// notifyDecision is best-effort; the decision stands regardless.
func (s *renewalService) notifyDecision(ctx context.Context, txn *domain.Transaction, approved bool, dueDate time.Time) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, txn.UserID)
	if err != nil {
		return
	}
	if err := s.emailSvc.SendRenewDecision(ctx, user.Email, user.Username, approved, dueDate); err != nil {
		logger.Warn("Failed to send renewal decision email",
			"transaction_id", txn.ID, "error", err)
	}
}
