// File: internal/infra/db/postgres/postgres_session_type_repo.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

var _ repository.SessionTypeRepository = (*sessionTypeRepo)(nil)

type sessionTypeRepo struct{ pool *pgxpool.Pool }

func NewSessionTypeRepo(pool *pgxpool.Pool) *sessionTypeRepo {
	return &sessionTypeRepo{pool: pool}
}

const sessionTypeColumns = `id, name, description, unit_price, duration_minutes, ledger_item_ref, created_at, updated_at`

func (r *sessionTypeRepo) Save(ctx context.Context, tx repository.Tx, st *model.SessionType) error {
	const q = `
INSERT INTO session_types (id, name, description, unit_price, duration_minutes, ledger_item_ref, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  name=$2, description=$3, unit_price=$4, duration_minutes=$5, ledger_item_ref=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, st.ID, st.Name, st.Description, st.UnitPrice, st.DurationMinutes, st.LedgerItemRef, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *sessionTypeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SessionType, error) {
	const q = `SELECT ` + sessionTypeColumns + ` FROM session_types WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	st := &model.SessionType{}
	if err := row.Scan(&st.ID, &st.Name, &st.Description, &st.UnitPrice, &st.DurationMinutes, &st.LedgerItemRef, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return st, nil
}

func (r *sessionTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SessionType, error) {
	const q = `SELECT ` + sessionTypeColumns + ` FROM session_types ORDER BY name;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.SessionType
	for rows.Next() {
		st := new(model.SessionType)
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.UnitPrice, &st.DurationMinutes, &st.LedgerItemRef, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, st)
	}
	return out, nil
}
