// File: internal/usecase/customer_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

// Compile-time check
var _ CustomerUseCase = (*customerUC)(nil)

type CustomerUseCase interface {
	Register(ctx context.Context, email, firstName, lastName, phone, address string) (*model.Customer, error)
	AddStudent(ctx context.Context, customerID, firstName, lastName, notes string) (*model.Student, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
}

type customerUC struct {
	customers repository.CustomerRepository
	students  repository.StudentRepository
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewCustomerUseCase(customers repository.CustomerRepository, students repository.StudentRepository, tm repository.TransactionManager, logger *zerolog.Logger) *customerUC {
	l := logger.With().Str("component", "CustomerUC").Logger()
	return &customerUC{customers: customers, students: students, tm: tm, log: &l}
}

func (u *customerUC) Register(ctx context.Context, email, firstName, lastName, phone, address string) (*model.Customer, error) {
	c, err := model.NewCustomer("", email, firstName, lastName, phone, address)
	if err != nil {
		return nil, err
	}
	// The email check and the insert run as one atomic operation so two
	// concurrent registrations with the same email cannot both pass the check.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		if _, err := u.customers.FindByEmail(ctx, tx, c.Email); err == nil {
			return domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return u.customers.Save(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("customer_id", c.ID).Msg("customer registered")
	return c, nil
}

func (u *customerUC) AddStudent(ctx context.Context, customerID, firstName, lastName, notes string) (*model.Student, error) {
	if _, err := u.customers.FindByID(ctx, nil, customerID); err != nil {
		return nil, err
	}
	s, err := model.NewStudent("", customerID, firstName, lastName, notes)
	if err != nil {
		return nil, err
	}
	if err := u.students.Save(ctx, nil, s); err != nil {
		return nil, err
	}
	u.log.Info().Str("student_id", s.ID).Str("customer_id", customerID).Msg("student added")
	return s, nil
}

func (u *customerUC) Get(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.customers.FindByID(ctx, nil, id)
}
