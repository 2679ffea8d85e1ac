package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/repository"
)

type reversionRepository struct {
	db *sql.DB
}

func NewReversionRepository(db *sql.DB) repository.ReversionRepository {
	return &reversionRepository{db: db}
}

func (r *reversionRepository) Create(ctx context.Context, rev *domain.ScheduledReversion) error {
	query := `INSERT INTO scheduled_reversions (key, kind, reservation_id, fire_at, applied, created_on)
	          VALUES ($1, $2, $3, $4, FALSE, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rev.Key, rev.Kind, rev.ReservationID, rev.FireAt, time.Now()).Scan(&rev.ID)
	return mapError(err)
}

func (r *reversionRepository) GetByKey(ctx context.Context, key string) (*domain.ScheduledReversion, error) {
	rev := &domain.ScheduledReversion{}
	query := `SELECT id, key, kind, reservation_id, fire_at, applied, created_on FROM scheduled_reversions WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&rev.ID, &rev.Key, &rev.Kind, &rev.ReservationID, &rev.FireAt, &rev.Applied, &rev.CreatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return rev, nil
}

func (r *reversionRepository) ListDue(ctx context.Context, now time.Time) ([]domain.ScheduledReversion, error) {
	query := `SELECT id, key, kind, reservation_id, fire_at, applied, created_on
	          FROM scheduled_reversions WHERE applied = FALSE AND fire_at <= $1 ORDER BY fire_at`
	return r.queryReversions(ctx, query, now)
}

func (r *reversionRepository) ListPending(ctx context.Context) ([]domain.ScheduledReversion, error) {
	query := `SELECT id, key, kind, reservation_id, fire_at, applied, created_on
	          FROM scheduled_reversions WHERE applied = FALSE ORDER BY fire_at`
	return r.queryReversions(ctx, query)
}

func (r *reversionRepository) queryReversions(ctx context.Context, query string, args ...interface{}) ([]domain.ScheduledReversion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var revs []domain.ScheduledReversion
	for rows.Next() {
		var rev domain.ScheduledReversion
		if err := rows.Scan(&rev.ID, &rev.Key, &rev.Kind, &rev.ReservationID, &rev.FireAt, &rev.Applied, &rev.CreatedOn); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// MarkApplied claims the row. The applied=FALSE guard means an in-process
// timer and the cron sweep racing over the same reversion fire it once.
func (r *reversionRepository) MarkApplied(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_reversions SET applied = TRUE WHERE id = $1 AND applied = FALSE`, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reversion already applied: %w", domain.ErrConflict)
	}
	return nil
}

func (r *reversionRepository) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_reversions WHERE key = $1`, key)
	return mapError(err)
}
