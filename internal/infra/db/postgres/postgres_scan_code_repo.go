// File: internal/infra/db/postgres/postgres_scan_code_repo.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

var _ repository.ScanCodeRepository = (*scanCodeRepo)(nil)

type scanCodeRepo struct{ pool *pgxpool.Pool }

func NewScanCodeRepo(pool *pgxpool.Pool) *scanCodeRepo {
	return &scanCodeRepo{pool: pool}
}

const scanCodeColumns = `id, customer_id, code_value, is_active, last_used_at, created_at, updated_at`

func (r *scanCodeRepo) Upsert(ctx context.Context, tx repository.Tx, code *model.ScanCode) error {
	const q = `
INSERT INTO scan_codes (id, customer_id, code_value, is_active, last_used_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (customer_id) DO UPDATE SET
  code_value=$3, is_active=TRUE, updated_at=NOW();`

	_, err := execSQL(ctx, r.pool, tx, q, code.ID, code.CustomerID, code.CodeValue, code.IsActive, code.LastUsedAt, code.CreatedAt, code.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		// A duplicate code_value means the generated value collided with
		// another customer's code. Retryable with a fresh value.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDependencyUnavailable
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *scanCodeRepo) FindActiveByValue(ctx context.Context, tx repository.Tx, codeValue string) (*model.ScanCode, error) {
	const q = `SELECT ` + scanCodeColumns + ` FROM scan_codes WHERE code_value=$1 AND is_active LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, codeValue)
	if err != nil {
		return nil, err
	}
	c := &model.ScanCode{}
	if err := row.Scan(&c.ID, &c.CustomerID, &c.CodeValue, &c.IsActive, &c.LastUsedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Deactivated and nonexistent values are indistinguishable here.
			return nil, domain.ErrCodeNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *scanCodeRepo) FindByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.ScanCode, error) {
	const q = `SELECT ` + scanCodeColumns + ` FROM scan_codes WHERE customer_id=$1 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, customerID)
	if err != nil {
		return nil, err
	}
	c := &model.ScanCode{}
	if err := row.Scan(&c.ID, &c.CustomerID, &c.CodeValue, &c.IsActive, &c.LastUsedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *scanCodeRepo) TouchLastUsed(ctx context.Context, tx repository.Tx, id string) error {
	// Conditional on is_active so a reissue racing a scan cannot resurrect
	// a deactivated code's timestamp.
	const q = `UPDATE scan_codes SET last_used_at=NOW(), updated_at=NOW() WHERE id=$1 AND is_active;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *scanCodeRepo) Deactivate(ctx context.Context, tx repository.Tx, customerID string) error {
	const q = `UPDATE scan_codes SET is_active=FALSE, updated_at=NOW() WHERE customer_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, customerID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
