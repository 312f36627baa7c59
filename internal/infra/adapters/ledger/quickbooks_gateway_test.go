// File: internal/infra/adapters/ledger/quickbooks_gateway_test.go
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
)

func sampleLine() model.InvoiceLine {
	return model.InvoiceLine{
		Quantity:     1,
		UnitPrice:    5000,
		Amount:       5000,
		ItemRef:      "1",
		ItemName:     "Math Tutoring",
		Description:  "Math Tutoring - 2026-03-02 - Avery Jones",
		CustomerName: "Avery Jones",
		TxnDate:      time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC),
	}
}

func TestQuickBooksGateway_SubmitInvoice(t *testing.T) {
	t.Run("posts a single-line invoice and returns the id", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_ = json.NewEncoder(w).Encode(map[string]any{"Invoice": map[string]any{"Id": "183"}})
		}))
		defer srv.Close()

		g, err := NewQuickBooksGateway(srv.URL, "realm-1", "token-1", false)
		if err != nil {
			t.Fatalf("NewQuickBooksGateway() error = %v", err)
		}

		id, err := g.SubmitInvoice(context.Background(), sampleLine())
		if err != nil {
			t.Fatalf("SubmitInvoice() error = %v", err)
		}
		if id != "183" {
			t.Errorf("invoice id = %q", id)
		}
		if gotPath != "/v3/company/realm-1/invoice" {
			t.Errorf("path = %q", gotPath)
		}
		if gotAuth != "Bearer token-1" {
			t.Errorf("auth = %q", gotAuth)
		}
		lines, _ := gotBody["Line"].([]any)
		if len(lines) != 1 {
			t.Fatalf("payload lines = %v", gotBody["Line"])
		}
		line := lines[0].(map[string]any)
		if line["Amount"] != 50.0 {
			t.Errorf("amount = %v, want dollars", line["Amount"])
		}
		if gotBody["TxnDate"] != "2026-03-02" {
			t.Errorf("txn date = %v", gotBody["TxnDate"])
		}
	})

	t.Run("http error status fails the submission", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		g, _ := NewQuickBooksGateway(srv.URL, "realm-1", "token-1", false)
		if _, err := g.SubmitInvoice(context.Background(), sampleLine()); err == nil {
			t.Fatal("expected an error for http 401")
		}
	})

	t.Run("fault body fails the submission", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"Fault": map[string]any{"type": "ValidationFault"}})
		}))
		defer srv.Close()

		g, _ := NewQuickBooksGateway(srv.URL, "realm-1", "token-1", false)
		if _, err := g.SubmitInvoice(context.Background(), sampleLine()); err == nil {
			t.Fatal("expected an error for a fault response")
		}
	})

	t.Run("unreachable host maps to dependency unavailable", func(t *testing.T) {
		g, _ := NewQuickBooksGateway("http://127.0.0.1:1", "realm-1", "token-1", false)
		_, err := g.SubmitInvoice(context.Background(), sampleLine())
		if !errors.Is(err, domain.ErrDependencyUnavailable) {
			t.Errorf("error = %v, want ErrDependencyUnavailable", err)
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		if _, err := NewQuickBooksGateway("", "", "token", false); err == nil {
			t.Error("empty realm should be rejected")
		}
		if _, err := NewQuickBooksGateway("", "realm", "", false); err == nil {
			t.Error("empty token should be rejected")
		}
	})
}

func TestNoopLedgerGateway(t *testing.T) {
	g := NewNoopLedgerGateway()

	id1, err := g.SubmitInvoice(context.Background(), sampleLine())
	if err != nil {
		t.Fatalf("SubmitInvoice() error = %v", err)
	}
	id2, _ := g.SubmitInvoice(context.Background(), sampleLine())
	if id1 == id2 {
		t.Errorf("invoice ids should be unique: %q, %q", id1, id2)
	}
	if _, ok := g.Submitted(id1); !ok {
		t.Errorf("line for %q not recorded", id1)
	}

	g.FailWith = errors.New("ledger down")
	if _, err := g.SubmitInvoice(context.Background(), sampleLine()); err == nil {
		t.Error("FailWith should fail submissions")
	}
}
