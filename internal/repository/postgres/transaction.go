package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, book_id, status, borrow_date, due_date)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.BookID, t.Status, t.BorrowDate, t.DueDate).Scan(&t.ID)
	return mapError(err)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	query := `SELECT id, user_id, book_id, status, borrow_date, due_date, return_date, overdue
	          FROM transactions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.BookID, &t.Status, &t.BorrowDate, &t.DueDate, &t.ReturnDate, &t.Overdue)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *transactionRepository) List(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, book_id, status, borrow_date, due_date, return_date, overdue
	          FROM transactions WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if userID != 0 {
		query += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, userID)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query += fmt.Sprintf(" ORDER BY borrow_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BookID, &t.Status, &t.BorrowDate, &t.DueDate, &t.ReturnDate, &t.Overdue); err != nil {
			return nil, 0, err
		}
		txns = append(txns, t)
	}
	return txns, count, rows.Err()
}

func (r *transactionRepository) ListActiveByBook(ctx context.Context, bookID int32) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, book_id, status, borrow_date, due_date, return_date, overdue
	          FROM transactions WHERE book_id = $1 AND status = $2`
	rows, err := r.db.QueryContext(ctx, query, bookID, domain.TransactionStatusBorrow)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BookID, &t.Status, &t.BorrowDate, &t.DueDate, &t.ReturnDate, &t.Overdue); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// MarkReturned flips BORROW to RETURN guarded on the current status. The
// guard is what makes a replayed return a detectable no-op instead of a
// second quantity increment.
func (r *transactionRepository) MarkReturned(ctx context.Context, id int32, returnedAt time.Time) error {
	query := `UPDATE transactions SET status = $1, return_date = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query,
		domain.TransactionStatusReturn, returnedAt, id, domain.TransactionStatusBorrow)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("transaction already returned: %w", domain.ErrConflict)
	}
	return nil
}

func (r *transactionRepository) UpdateDueDate(ctx context.Context, id int32, dueDate time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET due_date = $1 WHERE id = $2`, dueDate, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (r *transactionRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE transactions SET overdue = TRUE WHERE status = $1 AND due_date < $2 AND overdue = FALSE`
	res, err := r.db.ExecContext(ctx, query, domain.TransactionStatusBorrow, asOf)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}

func (r *transactionRepository) ListDueSoon(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, book_id, status, borrow_date, due_date, return_date, overdue
	          FROM transactions WHERE status = $1 AND due_date >= $2 AND due_date < $3`
	rows, err := r.db.QueryContext(ctx, query, domain.TransactionStatusBorrow, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.BookID, &t.Status, &t.BorrowDate, &t.DueDate, &t.ReturnDate, &t.Overdue); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
