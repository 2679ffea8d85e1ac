package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/keylock"
	"unilib-backend/internal/service"
)

func newTransactionService(txnRepo *MockTransactionRepo, userRepo *MockUserRepo, bookRepo *MockBookRepo) service.TransactionService {
	ledger := service.NewInventoryLedger(bookRepo)
	return service.NewTransactionService(txnRepo, userRepo, ledger, keylock.New(), 7)
}

func TestTransactionService_Borrow(t *testing.T) {
	ctx := context.Background()
	userID := int32(1)
	bookID := int32(5)

	t.Run("Success decrements quantity and sets a 7 day due date", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
		bookRepo.On("DecrementQuantity", ctx, bookID).Return(int32(2), nil)
		txnRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)

		txn, err := svc.Borrow(ctx, userID, bookID, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusBorrow, txn.Status)
		assert.WithinDuration(t, txn.BorrowDate.Add(7*24*time.Hour), txn.DueDate, time.Second)
		bookRepo.AssertNumberOfCalls(t, "DecrementQuantity", 1)
	})

	t.Run("Client-supplied non-BORROW status is rejected", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		txn, err := svc.Borrow(ctx, userID, bookID, "RETURN")
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, domain.ErrBadRequest)
		bookRepo.AssertNotCalled(t, "DecrementQuantity", ctx, bookID)
	})

	t.Run("No copies left surfaces as conflict without creating a transaction", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
		bookRepo.On("DecrementQuantity", ctx, bookID).
			Return(int32(0), domain.ConflictError("book has no available copies"))

		txn, err := svc.Borrow(ctx, userID, bookID, "BORROW")
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, domain.ErrConflict)
		txnRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Failed create compensates the decrement", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		userRepo.On("GetByID", ctx, userID).Return(&domain.User{ID: userID}, nil)
		bookRepo.On("DecrementQuantity", ctx, bookID).Return(int32(2), nil)
		txnRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).
			Return(domain.ConflictError("insert failed"))
		bookRepo.On("IncrementQuantity", ctx, bookID).Return(int32(3), nil)

		txn, err := svc.Borrow(ctx, userID, bookID, "")
		assert.Nil(t, txn)
		assert.Error(t, err)
		bookRepo.AssertCalled(t, "IncrementQuantity", ctx, bookID)
	})
}

func TestTransactionService_Update(t *testing.T) {
	ctx := context.Background()
	txnID := int32(9)
	bookID := int32(5)

	borrowed := func() *domain.Transaction {
		return &domain.Transaction{
			ID:         txnID,
			UserID:     1,
			BookID:     bookID,
			Status:     domain.TransactionStatusBorrow,
			BorrowDate: time.Now().Add(-24 * time.Hour),
			DueDate:    time.Now().Add(6 * 24 * time.Hour),
		}
	}

	t.Run("Return increments quantity exactly once", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		returned := borrowed()
		returned.Status = domain.TransactionStatusReturn

		txnRepo.On("GetByID", ctx, txnID).Return(borrowed(), nil).Once()
		txnRepo.On("MarkReturned", ctx, txnID, mock.AnythingOfType("time.Time")).Return(nil)
		bookRepo.On("IncrementQuantity", ctx, bookID).Return(int32(3), nil)
		txnRepo.On("GetByID", ctx, txnID).Return(returned, nil)

		txn, err := svc.Update(ctx, txnID, domain.TransactionStatusReturn, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusReturn, txn.Status)
		bookRepo.AssertNumberOfCalls(t, "IncrementQuantity", 1)
	})

	t.Run("Client-sent return date is ignored, server time is persisted", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		returned := borrowed()
		returned.Status = domain.TransactionStatusReturn

		backdate := time.Now().Add(-30 * 24 * time.Hour)
		txnRepo.On("GetByID", ctx, txnID).Return(borrowed(), nil).Once()
		txnRepo.On("MarkReturned", ctx, txnID, mock.MatchedBy(func(ts time.Time) bool {
			return time.Since(ts) < time.Second
		})).Return(nil)
		bookRepo.On("IncrementQuantity", ctx, bookID).Return(int32(3), nil)
		txnRepo.On("GetByID", ctx, txnID).Return(returned, nil)

		_, err := svc.Update(ctx, txnID, domain.TransactionStatusReturn, &backdate)
		assert.NoError(t, err)
		txnRepo.AssertExpectations(t)
	})

	t.Run("Replayed return is a no-op", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		returned := borrowed()
		returned.Status = domain.TransactionStatusReturn
		txnRepo.On("GetByID", ctx, txnID).Return(returned, nil)

		txn, err := svc.Update(ctx, txnID, domain.TransactionStatusReturn, nil)
		assert.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusReturn, txn.Status)
		bookRepo.AssertNotCalled(t, "IncrementQuantity", ctx, bookID)
		txnRepo.AssertNotCalled(t, "MarkReturned", ctx, txnID, mock.Anything)
	})

	t.Run("Moving a returned transaction back to BORROW is an invalid transition", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		returned := borrowed()
		returned.Status = domain.TransactionStatusReturn
		txnRepo.On("GetByID", ctx, txnID).Return(returned, nil)

		txn, err := svc.Update(ctx, txnID, domain.TransactionStatusBorrow, nil)
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("BORROW with a return date is a conflict", func(t *testing.T) {
		txnRepo := new(MockTransactionRepo)
		userRepo := new(MockUserRepo)
		bookRepo := new(MockBookRepo)
		svc := newTransactionService(txnRepo, userRepo, bookRepo)

		now := time.Now()
		txn, err := svc.Update(ctx, txnID, domain.TransactionStatusBorrow, &now)
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
