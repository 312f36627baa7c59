package model

import "time"

// DefaultLedgerItemRef is used when a session type carries no catalog mapping.
const DefaultLedgerItemRef = "1"

// InvoiceLine is the transient billing line item submitted to the external
// ledger for one attendance record. Quantity is always 1.
type InvoiceLine struct {
	Quantity     int
	UnitPrice    int64 // cents
	Amount       int64 // cents; Quantity * UnitPrice
	ItemRef      string
	ItemName     string
	Description  string
	CustomerName string
	TxnDate      time.Time
}

// BuildInvoiceLine composes the line item for a check-in: one unit at the
// session type's price, described as "<session> - <date> - <student>".
func BuildInvoiceLine(detail *CheckInDetail) InvoiceLine {
	itemRef := DefaultLedgerItemRef
	if detail.SessionType.LedgerItemRef != nil && *detail.SessionType.LedgerItemRef != "" {
		itemRef = *detail.SessionType.LedgerItemRef
	}
	date := detail.Record.CheckInTime.Format("2006-01-02")
	return InvoiceLine{
		Quantity:     1,
		UnitPrice:    detail.SessionType.UnitPrice,
		Amount:       detail.SessionType.UnitPrice,
		ItemRef:      itemRef,
		ItemName:     detail.SessionType.Name,
		Description:  detail.SessionType.Name + " - " + date + " - " + detail.Student.FullName(),
		CustomerName: detail.Student.FullName(),
		TxnDate:      detail.Record.CheckInTime,
	}
}
