package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type renewRepository struct {
	db *sql.DB
}

func NewRenewRepository(db *sql.DB) repository.RenewRepository {
	return &renewRepository{db: db}
}

// Create relies on the partial unique index on (transaction_id) WHERE
// status = 'REQUEST': a concurrent duplicate request comes back as a
// unique violation and maps to Conflict.
func (r *renewRepository) Create(ctx context.Context, rn *domain.Renew) error {
	query := `INSERT INTO renews (transaction_id, status, requested_on) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rn.TransactionID, rn.Status, rn.RequestedOn).Scan(&rn.ID)
	return mapError(err)
}

func (r *renewRepository) GetByID(ctx context.Context, id int32) (*domain.Renew, error) {
	rn := &domain.Renew{}
	query := `SELECT id, transaction_id, status, requested_on, decided_on FROM renews WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rn.ID, &rn.TransactionID, &rn.Status, &rn.RequestedOn, &rn.DecidedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return rn, nil
}

func (r *renewRepository) List(ctx context.Context) ([]domain.Renew, error) {
	query := `SELECT id, transaction_id, status, requested_on, decided_on FROM renews ORDER BY requested_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var renews []domain.Renew
	for rows.Next() {
		var rn domain.Renew
		if err := rows.Scan(&rn.ID, &rn.TransactionID, &rn.Status, &rn.RequestedOn, &rn.DecidedOn); err != nil {
			return nil, err
		}
		renews = append(renews, rn)
	}
	return renews, rows.Err()
}

func (r *renewRepository) HasPendingForTransaction(ctx context.Context, transactionID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM renews WHERE transaction_id = $1 AND status = $2)`
	err := r.db.QueryRowContext(ctx, query, transactionID, domain.RenewStatusRequest).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// Decide moves REQUEST to a terminal status, guarded on the row still being
// REQUEST so a replayed decision cannot extend a due date twice.
func (r *renewRepository) Decide(ctx context.Context, id int32, status domain.RenewStatus, decidedAt time.Time) error {
	query := `UPDATE renews SET status = $1, decided_on = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, status, decidedAt, id, domain.RenewStatusRequest)
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
		return fmt.Errorf("renew already decided: %w", domain.ErrConflict)
	}
	return nil
}
