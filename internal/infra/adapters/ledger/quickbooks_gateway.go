// File: internal/infra/adapters/ledger/quickbooks_gateway.go
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/adapter"
)

var _ adapter.LedgerGateway = (*QuickBooksGateway)(nil)

// QuickBooksGateway implements adapter.LedgerGateway against the QuickBooks
// Online v3 REST invoice endpoint.
type QuickBooksGateway struct {
	baseURL     string
	realmID     string
	accessToken string
	client      *http.Client
}

func NewQuickBooksGateway(baseURL, realmID, accessToken string, sandbox bool) (*QuickBooksGateway, error) {
	if realmID == "" {
		return nil, errors.New("realm id empty")
	}
	if accessToken == "" {
		return nil, errors.New("access token empty")
	}
	if baseURL == "" {
		baseURL = "https://quickbooks.api.intuit.com"
		if sandbox {
			baseURL = "https://sandbox-quickbooks.api.intuit.com"
		}
	}
	return &QuickBooksGateway{
		baseURL:     baseURL,
		realmID:     realmID,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *QuickBooksGateway) Name() string { return "quickbooks" }

// SubmitInvoice creates a single-line invoice and returns its QuickBooks id.
func (g *QuickBooksGateway) SubmitInvoice(ctx context.Context, line model.InvoiceLine) (string, error) {
	payload := map[string]any{
		"Line": []map[string]any{
			{
				"Amount":     cents(line.Amount),
				"DetailType": "SalesItemLineDetail",
				"SalesItemLineDetail": map[string]any{
					"ItemRef": map[string]any{
						"value": line.ItemRef,
						"name":  line.ItemName,
					},
					"Qty":       line.Quantity,
					"UnitPrice": cents(line.UnitPrice),
				},
				"Description": line.Description,
			},
		},
		"CustomerRef": map[string]any{
			"value": "1",
			"name":  line.CustomerName,
		},
		"TxnDate": line.TxnDate.Format("2006-01-02"),
	}
	b, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/v3/company/%s/invoice?minorversion=65", g.baseURL, g.realmID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("quickbooks invoice http %d", resp.StatusCode)
	}

	var out struct {
		Invoice struct {
			Id string `json:"Id"`
		} `json:"Invoice"`
		Fault any `json:"Fault"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Fault != nil || out.Invoice.Id == "" {
		return "", errors.New("quickbooks invoice create failed")
	}
	return out.Invoice.Id, nil
}

// QuickBooks amounts are decimal dollars; prices are stored in cents.
func cents(v int64) float64 { return float64(v) / 100 }
