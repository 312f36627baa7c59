package model

import (
	"strings"
	"time"

	"tutoring-checkin/internal/domain"

	"github.com/google/uuid"
)

// Customer is the account holder (typically a parent) who owns one or more
// students and presents a scan code at check-in.
type Customer struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCustomer(id, email, firstName, lastName, phone, address string) (*Customer, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Customer{
		ID:        id,
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
		Address:   strings.TrimSpace(address),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Customer) FullName() string { return c.FirstName + " " + c.LastName }

// Student is the person actually attending sessions. A customer owns one or
// more students; check-in resolves the customer to exactly one of them.
type Student struct {
	ID         string
	CustomerID string
	FirstName  string
	LastName   string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewStudent(id, customerID, firstName, lastName, notes string) (*Student, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if customerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Student{
		ID:         id,
		CustomerID: customerID,
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Notes:      strings.TrimSpace(notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *Student) FullName() string { return s.FirstName + " " + s.LastName }
