// File: internal/infra/db/postgres/postgres_customer_repo.go
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

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct{ pool *pgxpool.Pool }

func NewCustomerRepo(pool *pgxpool.Pool) *customerRepo {
	return &customerRepo{pool: pool}
}

const customerColumns = `id, email, first_name, last_name, phone, address, created_at, updated_at`

func (r *customerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	const q = `
INSERT INTO customers (id, email, first_name, last_name, phone, address, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  email=$2, first_name=$3, last_name=$4, phone=$5, address=$6, updated_at=$8;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Email, c.FirstName, c.LastName, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *customerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id=$1;`
	return r.findOne(ctx, tx, q, id)
}

func (r *customerRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE email=$1 LIMIT 1;`
	return r.findOne(ctx, tx, q, email)
}

func (r *customerRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.Customer, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	c := &model.Customer{}
	if err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

var _ repository.StudentRepository = (*studentRepo)(nil)

type studentRepo struct{ pool *pgxpool.Pool }

func NewStudentRepo(pool *pgxpool.Pool) *studentRepo {
	return &studentRepo{pool: pool}
}

const studentColumns = `id, customer_id, first_name, last_name, notes, created_at, updated_at`

func (r *studentRepo) Save(ctx context.Context, tx repository.Tx, s *model.Student) error {
	const q = `
INSERT INTO students (id, customer_id, first_name, last_name, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  first_name=$3, last_name=$4, notes=$5, updated_at=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.CustomerID, s.FirstName, s.LastName, s.Notes, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *studentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	s := &model.Student{}
	if err := row.Scan(&s.ID, &s.CustomerID, &s.FirstName, &s.LastName, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *studentRepo) ListByCustomer(ctx context.Context, tx repository.Tx, customerID string) ([]*model.Student, error) {
	// The ordering is part of the contract: check-in picks the first row.
	const q = `SELECT ` + studentColumns + ` FROM students WHERE customer_id=$1 ORDER BY created_at, id;`
	rows, err := queryRows(ctx, r.pool, tx, q, customerID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		s := new(model.Student)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.FirstName, &s.LastName, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, nil
}
