package service

import (
	"context"
	"fmt"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

type catalogService struct {
	bookRepo     repository.BookRepository
	categoryRepo repository.CategoryRepository
	txnRepo      repository.TransactionRepository
}

func NewCatalogService(
	bookRepo repository.BookRepository,
	categoryRepo repository.CategoryRepository,
	txnRepo repository.TransactionRepository,
) CatalogService {
	return &catalogService{
		bookRepo:     bookRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
	}
}

func (s *catalogService) AddBook(ctx context.Context, book *domain.Book) error {
	if book.Quantity < 0 {
		return domain.BadRequestError("quantity must not be negative")
	}
	if book.Status == "" {
		book.Status = domain.BookStatusReady
	}
	if _, err := s.categoryRepo.GetByID(ctx, book.CategoryID); err != nil {
		return fmt.Errorf("category lookup: %w", err)
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}
	logger.Info("Book added", "book_id", book.ID, "quantity", book.Quantity)
	return nil
}

func (s *catalogService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *catalogService) ListBooks(ctx context.Context, categoryID, page, pageSize int32) ([]domain.Book, int32, error) {
	return s.bookRepo.List(ctx, categoryID, page, pageSize)
}

func (s *catalogService) UpdateBook(ctx context.Context, book *domain.Book) error {
	if book.Quantity < 0 {
		return domain.BadRequestError("quantity must not be negative")
	}
	if _, err := s.bookRepo.GetByID(ctx, book.ID); err != nil {
		return err
	}
	if book.CategoryID != 0 {
		if _, err := s.categoryRepo.GetByID(ctx, book.CategoryID); err != nil {
			return fmt.Errorf("category lookup: %w", err)
		}
	}
	return s.bookRepo.Update(ctx, book)
}

// DeleteBook refuses while copies are still out, so a later return cannot
// increment quantity on a record that no longer exists.
func (s *catalogService) DeleteBook(ctx context.Context, id int32) error {
	active, err := s.txnRepo.ListActiveByBook(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return domain.ConflictError("book has outstanding borrow transactions")
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Book deleted", "book_id", id)
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, category *domain.Category) error {
	return s.categoryRepo.Create(ctx, category)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory relies on the books.category_id foreign key: deleting a
// category that still has books surfaces as a conflict, not a cascade.
func (s *catalogService) DeleteCategory(ctx context.Context, id int32) error {
	return s.categoryRepo.Delete(ctx, id)
}
