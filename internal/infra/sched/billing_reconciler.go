// File: internal/infra/sched/billing_reconciler.go
package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/ports/repository"
	"tutoring-checkin/internal/usecase"
)

// BillingReconciler periodically scans for attendance records stuck in
// pending and pushes them through the billing sync engine. This covers the
// crash window between record creation and the first sync attempt, and syncs
// that were simply never invoked. Records in error state are never retried
// here: re-syncing those creates a new external invoice and must be a
// deliberate call.
type BillingReconciler struct {
	billing    usecase.BillingUseCase
	attendance repository.AttendanceRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending record must be to retry
	log        *zerolog.Logger
}

func NewBillingReconciler(billing usecase.BillingUseCase, attendance repository.AttendanceRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *BillingReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	l := logger.With().Str("component", "BillingReconciler").Logger()
	return &BillingReconciler{
		billing:    billing,
		attendance: attendance,
		interval:   interval,
		staleAfter: staleAfter,
		log:        &l,
	}
}

func (w *BillingReconciler) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting billing reconciler")
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping billing reconciler")
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *BillingReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.attendance.ListPendingOlderThan(ctx, nil, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list pending records failed")
		return
	}
	for _, rec := range pending {
		if _, err := w.billing.SyncRecord(ctx, rec.ID); err != nil {
			if errors.Is(err, domain.ErrSyncInProgress) {
				continue // someone else got there first
			}
			w.log.Warn().Err(err).Str("record_id", rec.ID).Msg("reconcile sync failed")
			continue
		}
		w.log.Info().Str("record_id", rec.ID).Msg("reconciled pending record")
	}
}
