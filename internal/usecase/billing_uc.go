// File: internal/usecase/billing_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/adapter"
	"tutoring-checkin/internal/domain/ports/repository"
	"tutoring-checkin/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

type BillingUseCase interface {
	// SyncRecord submits one attendance record to the external ledger and
	// writes the outcome back. The status write happens on both branches:
	// a record never stays pending after a sync attempt. Re-syncing an error
	// record is allowed and creates a new external invoice; callers must not
	// auto-retry blindly.
	SyncRecord(ctx context.Context, recordID string) (*model.AttendanceRecord, error)
	// StatusList is the read-side projection for the sync dashboard:
	// most-recent-first, bounded page size.
	StatusList(ctx context.Context, limit int) ([]*model.CheckInDetail, error)
}

// SyncLocker serializes concurrent sync attempts on the same record.
// Satisfied by the redis locker.
type SyncLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

type billingUC struct {
	attendance repository.AttendanceRepository
	gateway    adapter.LedgerGateway
	locker     SyncLocker
	lockTTL    time.Duration
	timeout    time.Duration
	log        *zerolog.Logger
}

func NewBillingUseCase(
	attendance repository.AttendanceRepository,
	gateway adapter.LedgerGateway,
	locker SyncLocker,
	lockTTL, timeout time.Duration,
	logger *zerolog.Logger,
) *billingUC {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	l := logger.With().Str("component", "BillingUC").Logger()
	return &billingUC{
		attendance: attendance,
		gateway:    gateway,
		locker:     locker,
		lockTTL:    lockTTL,
		timeout:    timeout,
		log:        &l,
	}
}

func (u *billingUC) SyncRecord(ctx context.Context, recordID string) (*model.AttendanceRecord, error) {
	if recordID == "" {
		return nil, domain.ErrInvalidArgument
	}
	detail, err := u.attendance.FindDetail(ctx, nil, recordID)
	if err != nil {
		return nil, err
	}

	// One sync attempt per record at a time. This narrows the duplicate
	// invoice window for concurrent callers; sequential deliberate re-syncs
	// still create a new invoice at the ledger.
	lockKey := "billing:sync:" + recordID
	token, err := u.locker.TryLock(ctx, lockKey, u.lockTTL)
	if err != nil {
		return nil, domain.ErrSyncInProgress
	}
	defer func() { _ = u.locker.Unlock(context.Background(), lockKey, token) }()

	line := model.BuildInvoiceLine(detail)

	start := time.Now()
	submitCtx, cancel := context.WithTimeout(ctx, u.timeout)
	invoiceID, submitErr := u.gateway.SubmitInvoice(submitCtx, line)
	cancel()
	metrics.ObserveLedgerSubmit(u.gateway.Name(), time.Since(start), submitErr == nil)

	// The status write must reach a terminal state even if the request
	// context is already cancelled, so it runs on a detached context.
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelWrite()

	rec := detail.Record
	now := time.Now()
	if submitErr != nil {
		if err := u.attendance.UpdateBillingStatus(writeCtx, nil, rec.ID, model.BillingStatusError, nil); err != nil {
			u.log.Error().Err(err).Str("record_id", rec.ID).Msg("failed to write error billing status")
		}
		rec.BillingStatus = model.BillingStatusError
		rec.BillingRef = nil
		rec.UpdatedAt = now
		metrics.IncBillingSync("error")
		u.log.Warn().Err(submitErr).Str("record_id", rec.ID).Msg("ledger submission failed")
		return &rec, fmt.Errorf("%w: %v", domain.ErrBillingRejected, submitErr)
	}

	if err := u.attendance.UpdateBillingStatus(writeCtx, nil, rec.ID, model.BillingStatusSuccess, &invoiceID); err != nil {
		u.log.Error().Err(err).Str("record_id", rec.ID).Msg("failed to write success billing status")
	}
	rec.BillingStatus = model.BillingStatusSuccess
	rec.BillingRef = &invoiceID
	rec.UpdatedAt = now
	metrics.IncBillingSync("success")
	u.log.Info().Str("record_id", rec.ID).Str("invoice_id", invoiceID).Msg("record billed")
	return &rec, nil
}

func (u *billingUC) StatusList(ctx context.Context, limit int) ([]*model.CheckInDetail, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return u.attendance.ListRecent(ctx, nil, limit)
}
