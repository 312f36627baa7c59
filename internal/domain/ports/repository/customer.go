package repository

import (
	"context"

	"tutoring-checkin/internal/domain/model"
)

type CustomerRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Customer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Customer, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Customer, error)
}

type StudentRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Student) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Student, error)
	// ListByCustomer returns the customer's students ordered by
	// (created_at, id) ascending. Check-in selects the first row, so the
	// ordering is part of the contract, not an implementation detail.
	ListByCustomer(ctx context.Context, tx Tx, customerID string) ([]*model.Student, error)
}
