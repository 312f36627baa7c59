// File: internal/infra/adapters/ledger/noop_ledger.go
package ledger

import (
	"context"
	"fmt"
	"sync"

	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/adapter"
)

var _ adapter.LedgerGateway = (*NoopLedgerGateway)(nil)

// NoopLedgerGateway is a simple in-memory ledger to use in tests and dev mode.
type NoopLedgerGateway struct {
	mu       sync.Mutex
	seq      int64
	invoices map[string]model.InvoiceLine // invoice id -> submitted line

	// FailWith, when set, makes every submission fail with this error.
	FailWith error
}

func NewNoopLedgerGateway() *NoopLedgerGateway {
	return &NoopLedgerGateway{
		invoices: make(map[string]model.InvoiceLine),
	}
}

func (g *NoopLedgerGateway) Name() string { return "noop" }

func (g *NoopLedgerGateway) SubmitInvoice(ctx context.Context, line model.InvoiceLine) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailWith != nil {
		return "", g.FailWith
	}
	g.seq++
	id := fmt.Sprintf("INV-%d", g.seq)
	g.invoices[id] = line
	return id, nil
}

// Submitted returns the line recorded under an invoice id, for assertions.
func (g *NoopLedgerGateway) Submitted(invoiceID string) (model.InvoiceLine, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	line, ok := g.invoices[invoiceID]
	return line, ok
}
