package model

import (
	"strings"
	"time"

	"tutoring-checkin/internal/domain"

	"github.com/google/uuid"
)

// SessionType is read-only reference data describing a billable session kind.
// UnitPrice is stored in cents to avoid float errors (same convention the
// ledger line items use).
type SessionType struct {
	ID              string
	Name            string
	Description     string
	UnitPrice       int64 // cents
	DurationMinutes int
	LedgerItemRef   *string // mapping to the ledger's catalog item, if any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewSessionType(id, name, description string, unitPrice int64, durationMinutes int, ledgerItemRef *string) (*SessionType, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if unitPrice < 0 || durationMinutes < 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &SessionType{
		ID:              id,
		Name:            strings.TrimSpace(name),
		Description:     strings.TrimSpace(description),
		UnitPrice:       unitPrice,
		DurationMinutes: durationMinutes,
		LedgerItemRef:   ledgerItemRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
