package model

import (
	"time"

	"tutoring-checkin/internal/domain"

	"github.com/oklog/ulid/v2"
)

type BillingStatus string

const (
	BillingStatusPending BillingStatus = "pending" // record created; not yet submitted to the ledger
	BillingStatusSuccess BillingStatus = "success" // ledger accepted; BillingRef holds the invoice id
	BillingStatusError   BillingStatus = "error"   // ledger submission failed; needs a deliberate re-sync
)

// AttendanceRecord is one logged session visit, billable exactly once.
// Core fields are immutable after creation; only BillingStatus/BillingRef
// are mutated, and only by the billing sync engine.
//
// IDs are ULIDs so records sort lexically by creation time.
type AttendanceRecord struct {
	ID            string
	StudentID     string
	SessionTypeID string
	StaffID       string
	CheckInTime   time.Time
	Notes         string
	BillingStatus BillingStatus
	BillingRef    *string // external invoice id; non-nil iff status is success
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewAttendanceRecord(id, studentID, sessionTypeID, staffID, notes string) (*AttendanceRecord, error) {
	if id == "" {
		id = ulid.Make().String()
	}
	if studentID == "" || sessionTypeID == "" || staffID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &AttendanceRecord{
		ID:            id,
		StudentID:     studentID,
		SessionTypeID: sessionTypeID,
		StaffID:       staffID,
		CheckInTime:   now,
		Notes:         notes,
		BillingStatus: BillingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CheckInDetail is the denormalized read shape joining a record with its
// student and session type. Used by the recorder response and the history
// and billing-status projections.
type CheckInDetail struct {
	Record      AttendanceRecord
	Student     Student
	SessionType SessionType
}
