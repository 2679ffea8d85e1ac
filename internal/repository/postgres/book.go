package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (name_th, name_en, description_th, description_en, image_url, category_id, status, quantity, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		b.Name.TH, b.Name.EN, b.Description.TH, b.Description.EN,
		b.ImageURL, b.CategoryID, b.Status, b.Quantity, time.Now(), time.Now()).Scan(&b.ID)
	return mapError(err)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT id, name_th, name_en, description_th, description_en, image_url, category_id, status, quantity, created_on, updated_on
	          FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name.TH, &b.Name.EN, &b.Description.TH, &b.Description.EN,
		&b.ImageURL, &b.CategoryID, &b.Status, &b.Quantity, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookRepository) List(ctx context.Context, categoryID int32, page, pageSize int32) ([]domain.Book, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, name_th, name_en, description_th, description_en, image_url, category_id, status, quantity, created_on, updated_on
	          FROM books`

	args := []interface{}{}
	argIdx := 1
	if categoryID != 0 {
		query += " WHERE category_id = $1"
		args = append(args, categoryID)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Name.TH, &b.Name.EN, &b.Description.TH, &b.Description.EN,
			&b.ImageURL, &b.CategoryID, &b.Status, &b.Quantity, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, count, rows.Err()
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET name_th=$1, name_en=$2, description_th=$3, description_en=$4, image_url=$5, category_id=$6, status=$7, quantity=$8, updated_on=$9 WHERE id=$10`
	res, err := r.db.ExecContext(ctx, query,
		b.Name.TH, b.Name.EN, b.Description.TH, b.Description.EN,
		b.ImageURL, b.CategoryID, b.Status, b.Quantity, time.Now(), b.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// DecrementQuantity is the conditional write backing borrow: the decrement
// applies only while quantity is still positive, so two concurrent borrows
// can never both consume the last copy.
func (r *bookRepository) DecrementQuantity(ctx context.Context, id int32) (int32, error) {
	var quantity int32
	query := `UPDATE books SET quantity = quantity - 1, updated_on = $2
	          WHERE id = $1 AND quantity > 0 RETURNING quantity`
	err := r.db.QueryRowContext(ctx, query, id, time.Now()).Scan(&quantity)
	if err == sql.ErrNoRows {
		// Either the book is gone or the guard failed; disambiguate.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, domain.ConflictError("book has no available copies")
	}
	if err != nil {
		return 0, mapError(err)
	}
	return quantity, nil
}

func (r *bookRepository) IncrementQuantity(ctx context.Context, id int32) (int32, error) {
	var quantity int32
	query := `UPDATE books SET quantity = quantity + 1, updated_on = $2 WHERE id = $1 RETURNING quantity`
	err := r.db.QueryRowContext(ctx, query, id, time.Now()).Scan(&quantity)
	if err != nil {
		return 0, mapError(err)
	}
	return quantity, nil
}

// requireRow converts a zero-row ExecContext result into NotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
