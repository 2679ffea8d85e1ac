package postgres

import (
	"context"
	"database/sql"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (name_th, name_en) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.Name.TH, c.Name.EN).Scan(&c.ID)
	return mapError(err)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name_th, name_en FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name.TH, &c.Name.EN)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name_th, name_en FROM categories ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name.TH, &c.Name.EN); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name_th=$1, name_en=$2 WHERE id=$3`,
		c.Name.TH, c.Name.EN, c.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

func (r *categoryRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}
