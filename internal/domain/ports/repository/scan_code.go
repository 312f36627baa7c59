package repository

import (
	"context"

	"tutoring-checkin/internal/domain/model"
)

// ScanCodeRepository persists scan codes. One row per customer: Upsert
// overwrites the value and reactivates rather than inserting a second row.
type ScanCodeRepository interface {
	// Upsert inserts the code or, if the customer already holds one,
	// overwrites its value and reactivates it. A collision on code_value
	// (unique across all customers) maps to domain.ErrDependencyUnavailable.
	Upsert(ctx context.Context, tx Tx, code *model.ScanCode) error
	// FindActiveByValue looks up by exact value where is_active.
	// Misses and deactivated codes both return domain.ErrCodeNotFound.
	FindActiveByValue(ctx context.Context, tx Tx, codeValue string) (*model.ScanCode, error)
	FindByCustomer(ctx context.Context, tx Tx, customerID string) (*model.ScanCode, error)
	// TouchLastUsed records a successful validation. The update is
	// conditional on the code still being active.
	TouchLastUsed(ctx context.Context, tx Tx, id string) error
	Deactivate(ctx context.Context, tx Tx, customerID string) error
}
