// File: internal/usecase/checkin_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
	"tutoring-checkin/internal/infra/metrics"
)

// Compile-time check
var _ CheckInUseCase = (*checkInUC)(nil)

const defaultHistoryLimit = 100

type CheckInUseCase interface {
	// RecordCheckIn resolves the customer to a billable student and creates an
	// immutable attendance record with billing status pending. When the
	// customer owns several students the first by creation order is selected;
	// the choice is deterministic for an unchanged student set.
	RecordCheckIn(ctx context.Context, customerID, sessionTypeID, staffID, notes string) (*model.CheckInDetail, error)
	// History lists check-ins most-recent-first, at most limit rows
	// (bounded at 100).
	History(ctx context.Context, limit int) ([]*model.CheckInDetail, error)
}

type checkInUC struct {
	attendance   repository.AttendanceRepository
	students     repository.StudentRepository
	sessionTypes repository.SessionTypeRepository
	log          *zerolog.Logger
}

func NewCheckInUseCase(
	attendance repository.AttendanceRepository,
	students repository.StudentRepository,
	sessionTypes repository.SessionTypeRepository,
	logger *zerolog.Logger,
) *checkInUC {
	l := logger.With().Str("component", "CheckInUC").Logger()
	return &checkInUC{attendance: attendance, students: students, sessionTypes: sessionTypes, log: &l}
}

func (u *checkInUC) RecordCheckIn(ctx context.Context, customerID, sessionTypeID, staffID, notes string) (*model.CheckInDetail, error) {
	if customerID == "" || sessionTypeID == "" || staffID == "" {
		return nil, domain.ErrInvalidArgument
	}

	students, err := u.students.ListByCustomer(ctx, nil, customerID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, domain.ErrNoStudentsFound
	}
	// ListByCustomer orders by creation; the first student wins.
	student := students[0]

	sessionType, err := u.sessionTypes.FindByID(ctx, nil, sessionTypeID)
	if err != nil {
		return nil, err
	}

	rec, err := model.NewAttendanceRecord("", student.ID, sessionTypeID, staffID, notes)
	if err != nil {
		return nil, err
	}
	if err := u.attendance.Insert(ctx, nil, rec); err != nil {
		return nil, err
	}

	metrics.IncCheckIn()
	u.log.Info().
		Str("record_id", rec.ID).
		Str("student_id", student.ID).
		Str("session_type_id", sessionTypeID).
		Msg("check-in recorded")

	return &model.CheckInDetail{
		Record:      *rec,
		Student:     *student,
		SessionType: *sessionType,
	}, nil
}

func (u *checkInUC) History(ctx context.Context, limit int) ([]*model.CheckInDetail, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return u.attendance.ListRecent(ctx, nil, limit)
}
