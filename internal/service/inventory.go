package service

import (
	"context"

	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

// InventoryLedger owns every mutation of a book's loanable-copy count. The
// transaction controller is the only caller and is responsible for invoking
// each operation at most once per transaction state change.
type InventoryLedger interface {
	// DecrementOnBorrow takes one copy; NotFound if the book is absent,
	// Conflict if no copies remain.
	DecrementOnBorrow(ctx context.Context, bookID int32) (int32, error)
	// IncrementOnReturn puts one copy back; NotFound if the book is absent.
	IncrementOnReturn(ctx context.Context, bookID int32) (int32, error)
}

type inventoryLedger struct {
	bookRepo repository.BookRepository
}

func NewInventoryLedger(bookRepo repository.BookRepository) InventoryLedger {
	return &inventoryLedger{bookRepo: bookRepo}
}

func (l *inventoryLedger) DecrementOnBorrow(ctx context.Context, bookID int32) (int32, error) {
	quantity, err := l.bookRepo.DecrementQuantity(ctx, bookID)
	if err != nil {
		return 0, err
	}
	logger.Debug("Book quantity decremented", "book_id", bookID, "quantity", quantity)
	return quantity, nil
}

func (l *inventoryLedger) IncrementOnReturn(ctx context.Context, bookID int32) (int32, error) {
	quantity, err := l.bookRepo.IncrementQuantity(ctx, bookID)
	if err != nil {
		return 0, err
	}
	logger.Debug("Book quantity incremented", "book_id", bookID, "quantity", quantity)
	return quantity, nil
}
