// File: internal/infra/db/postgres/postgres_attendance_repo.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

var _ repository.AttendanceRepository = (*attendanceRepo)(nil)

type attendanceRepo struct{ pool *pgxpool.Pool }

func NewAttendanceRepo(pool *pgxpool.Pool) *attendanceRepo {
	return &attendanceRepo{pool: pool}
}

const attendanceColumns = `id, student_id, session_type_id, staff_id, check_in_time, notes, billing_status, billing_ref, created_at, updated_at`

func (r *attendanceRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.AttendanceRecord) error {
	const q = `
INSERT INTO attendance_records (id, student_id, session_type_id, staff_id, check_in_time, notes, billing_status, billing_ref, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	_, err := execSQL(ctx, r.pool, tx, q, rec.ID, rec.StudentID, rec.SessionTypeID, rec.StaffID, rec.CheckInTime, rec.Notes, rec.BillingStatus, rec.BillingRef, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *attendanceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AttendanceRecord, error) {
	const q = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	rec := &model.AttendanceRecord{}
	if err := scanRecord(row, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

const detailQuery = `
SELECT
  ar.id, ar.student_id, ar.session_type_id, ar.staff_id, ar.check_in_time, ar.notes,
  ar.billing_status, ar.billing_ref, ar.created_at, ar.updated_at,
  s.id, s.customer_id, s.first_name, s.last_name, s.notes, s.created_at, s.updated_at,
  st.id, st.name, st.description, st.unit_price, st.duration_minutes, st.ledger_item_ref, st.created_at, st.updated_at
FROM attendance_records ar
JOIN students s ON ar.student_id = s.id
JOIN session_types st ON ar.session_type_id = st.id`

func scanDetail(row pgx.Row) (*model.CheckInDetail, error) {
	d := &model.CheckInDetail{}
	err := row.Scan(
		&d.Record.ID, &d.Record.StudentID, &d.Record.SessionTypeID, &d.Record.StaffID, &d.Record.CheckInTime, &d.Record.Notes,
		&d.Record.BillingStatus, &d.Record.BillingRef, &d.Record.CreatedAt, &d.Record.UpdatedAt,
		&d.Student.ID, &d.Student.CustomerID, &d.Student.FirstName, &d.Student.LastName, &d.Student.Notes, &d.Student.CreatedAt, &d.Student.UpdatedAt,
		&d.SessionType.ID, &d.SessionType.Name, &d.SessionType.Description, &d.SessionType.UnitPrice, &d.SessionType.DurationMinutes, &d.SessionType.LedgerItemRef, &d.SessionType.CreatedAt, &d.SessionType.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return d, nil
}

func (r *attendanceRepo) FindDetail(ctx context.Context, tx repository.Tx, id string) (*model.CheckInDetail, error) {
	q := detailQuery + ` WHERE ar.id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanDetail(row)
}

func (r *attendanceRepo) UpdateBillingStatus(ctx context.Context, tx repository.Tx, id string, status model.BillingStatus, billingRef *string) error {
	// billing_ref is overwritten, not coalesced: an error outcome must clear
	// any ref left over from a previous attempt.
	const q = `UPDATE attendance_records SET billing_status=$2, billing_ref=$3, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status, billingRef)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *attendanceRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.CheckInDetail, error) {
	if limit <= 0 {
		limit = 100
	}
	q := detailQuery + ` ORDER BY ar.check_in_time DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.CheckInDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *attendanceRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE billing_status='pending' AND check_in_time < $1 ORDER BY check_in_time ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.AttendanceRecord
	for rows.Next() {
		rec := new(model.AttendanceRecord)
		if err := scanRecord(rows, rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func scanRecord(row pgx.Row, rec *model.AttendanceRecord) error {
	err := row.Scan(&rec.ID, &rec.StudentID, &rec.SessionTypeID, &rec.StaffID, &rec.CheckInTime, &rec.Notes, &rec.BillingStatus, &rec.BillingRef, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return domain.ErrReadDatabaseRow
	}
	return nil
}
