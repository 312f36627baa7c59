package adapter

import (
	"context"

	"tutoring-checkin/internal/domain/model"
)

// LedgerGateway is the hex port for the external accounting service that is
// the system of record for billing. Implementations must treat every failure
// uniformly as a billing failure; the engine decides what that means for the
// record's status.
type LedgerGateway interface {
	Name() string

	// SubmitInvoice creates a one-line invoice at the ledger and returns its
	// external invoice id. The call is bounded by ctx; a timeout is a failure
	// like any other.
	SubmitInvoice(ctx context.Context, line model.InvoiceLine) (invoiceID string, err error)
}
