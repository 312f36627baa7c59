package repository

import (
	"context"
	"time"

	"tutoring-checkin/internal/domain/model"
)

type AttendanceRepository interface {
	Insert(ctx context.Context, tx Tx, rec *model.AttendanceRecord) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.AttendanceRecord, error)
	// FindDetail loads the record joined with its student and session type.
	FindDetail(ctx context.Context, tx Tx, id string) (*model.CheckInDetail, error)
	// UpdateBillingStatus sets the billing outcome of a sync attempt.
	// billingRef must be non-nil only for success.
	UpdateBillingStatus(ctx context.Context, tx Tx, id string, status model.BillingStatus, billingRef *string) error
	// ListRecent returns joined detail rows most-recent-first, at most limit.
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.CheckInDetail, error)
	// ListPendingOlderThan returns records still pending whose check-in time
	// is before the cutoff, oldest first. Used by the reconciler.
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.AttendanceRecord, error)
}
