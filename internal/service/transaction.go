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

type transactionService struct {
	txnRepo    repository.TransactionRepository
	userRepo   repository.UserRepository
	ledger     InventoryLedger
	locks      *keylock.KeyLock
	loanPeriod time.Duration
}

func NewTransactionService(
	txnRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	ledger InventoryLedger,
	locks *keylock.KeyLock,
	loanPeriodDays int,
) TransactionService {
	return &transactionService{
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		ledger:     ledger,
		locks:      locks,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
	}
}

// Borrow is server-authoritative on the initial status: the client may echo
// BORROW or send nothing, anything else is a bad request.
func (s *transactionService) Borrow(ctx context.Context, userID, bookID int32, clientStatus string) (*domain.Transaction, error) {
	if clientStatus != "" && clientStatus != string(domain.TransactionStatusBorrow) {
		return nil, domain.BadRequestError("new transactions must have the status 'BORROW'")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("borrower lookup: %w", err)
	}

	key := bookKey(bookID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	// The ledger enforces quantity > 0; NotFound and Conflict pass through.
	quantity, err := s.ledger.DecrementOnBorrow(ctx, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := &domain.Transaction{
		UserID:     userID,
		BookID:     bookID,
		Status:     domain.TransactionStatusBorrow,
		BorrowDate: now,
		DueDate:    now.Add(s.loanPeriod),
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		// Compensate so the copy is not leaked.
		if _, incErr := s.ledger.IncrementOnReturn(ctx, bookID); incErr != nil {
			logger.Error("Failed to compensate ledger after create failure",
				"book_id", bookID, "error", incErr)
		}
		return nil, err
	}

	logger.Info("Book borrowed", "transaction_id", txn.ID, "book_id", bookID,
		"user_id", userID, "quantity_left", quantity, "due_date", txn.DueDate)
	return txn, nil
}

func (s *transactionService) Get(ctx context.Context, id int32) (*domain.Transaction, error) {
	return s.txnRepo.GetByID(ctx, id)
}

func (s *transactionService) List(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	return s.txnRepo.List(ctx, userID, status, page, pageSize)
}

// Update drives the BORROW -> RETURN transition. The ledger increment happens
// only after MarkReturned claims the transition, so a replayed return can
// never inflate quantity a second time.
func (s *transactionService) Update(ctx context.Context, id int32, newStatus domain.TransactionStatus, returnDate *time.Time) (*domain.Transaction, error) {
	if newStatus == domain.TransactionStatusBorrow && returnDate != nil {
		return nil, domain.ConflictError("when status is BORROW, returnDate must not be provided")
	}

	key := txnKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	current, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transaction lookup: %w", err)
	}

	switch newStatus {
	case domain.TransactionStatusReturn:
		if current.Status == domain.TransactionStatusReturn {
			// Already returned: a no-op, not a second increment.
			logger.Debug("Return replayed on returned transaction", "transaction_id", id)
			return current, nil
		}
		// The return timestamp is server-assigned; a client-sent
		// return_date is validated above but never persisted.
		if err := s.txnRepo.MarkReturned(ctx, id, time.Now()); err != nil {
			return nil, err
		}
		if _, err := s.ledger.IncrementOnReturn(ctx, current.BookID); err != nil {
			return nil, err
		}
		logger.Info("Book returned", "transaction_id", id, "book_id", current.BookID)
		return s.txnRepo.GetByID(ctx, id)

	case domain.TransactionStatusBorrow:
		if current.Status == domain.TransactionStatusReturn {
			return nil, domain.TransitionError("transaction",
				string(current.Status), string(newStatus))
		}
		// BORROW -> BORROW: nothing to change.
		return current, nil

	default:
		return nil, domain.BadRequestError(fmt.Sprintf("unknown transaction status %q", newStatus))
	}
}

func bookKey(bookID int32) string {
	return fmt.Sprintf("book:%d", bookID)
}

func txnKey(id int32) string {
	return fmt.Sprintf("txn:%d", id)
}
