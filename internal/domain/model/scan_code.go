package model

import (
	"time"

	"tutoring-checkin/internal/domain"

	"github.com/google/uuid"
)

// ScanCode is the opaque token bound to a customer and presented at check-in.
// A customer holds at most one code row; reissuing overwrites the value and
// reactivates it rather than appending a new row.
type ScanCode struct {
	ID         string
	CustomerID string
	CodeValue  string
	IsActive   bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewScanCode(id, customerID, codeValue string) (*ScanCode, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if customerID == "" || codeValue == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &ScanCode{
		ID:         id,
		CustomerID: customerID,
		CodeValue:  codeValue,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
