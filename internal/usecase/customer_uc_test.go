// File: internal/usecase/customer_uc_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/usecase"
)

func TestCustomerUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new customer", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(newMemCustomerRepo(), newMemStudentRepo(), &MockTxManager{}, newTestLogger())
		c, err := uc.Register(ctx, "parent@example.com", "Dana", "Smith", "555-0100", "")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if c.ID == "" {
			t.Error("registered customer has no id")
		}
		got, err := uc.Get(ctx, c.ID)
		if err != nil || got.Email != "parent@example.com" {
			t.Errorf("Get() = (%+v, %v)", got, err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(newMemCustomerRepo(), newMemStudentRepo(), &MockTxManager{}, newTestLogger())
		if _, err := uc.Register(ctx, "parent@example.com", "Dana", "Smith", "", ""); err != nil {
			t.Fatalf("first Register() error = %v", err)
		}
		if _, err := uc.Register(ctx, "parent@example.com", "Other", "Person", "", ""); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("second Register() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(newMemCustomerRepo(), newMemStudentRepo(), &MockTxManager{}, newTestLogger())
		if _, err := uc.Register(ctx, "not-an-email", "Dana", "Smith", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("Register() error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestCustomerUseCase_AddStudent(t *testing.T) {
	ctx := context.Background()
	customers := newMemCustomerRepo()
	students := newMemStudentRepo()
	uc := usecase.NewCustomerUseCase(customers, students, &MockTxManager{}, newTestLogger())

	c, err := uc.Register(ctx, "parent@example.com", "Dana", "Smith", "", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("adds a student to an existing customer", func(t *testing.T) {
		s, err := uc.AddStudent(ctx, c.ID, "Avery", "Smith", "grade 5")
		if err != nil {
			t.Fatalf("AddStudent() error = %v", err)
		}
		if s.CustomerID != c.ID {
			t.Errorf("student customer = %s, want %s", s.CustomerID, c.ID)
		}
		list, err := students.ListByCustomer(ctx, nil, c.ID)
		if err != nil || len(list) != 1 {
			t.Errorf("ListByCustomer() = (%d rows, %v)", len(list), err)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		if _, err := uc.AddStudent(ctx, "missing", "Avery", "Smith", ""); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("AddStudent() error = %v, want ErrNotFound", err)
		}
	})
}
