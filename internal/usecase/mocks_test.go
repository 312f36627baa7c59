// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memCustomerRepo is a small in-memory implementation used by unit tests.
type memCustomerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{store: make(map[string]*model.Customer)}
}

func (m *memCustomerRepo) Save(ctx context.Context, tx repository.Tx, c *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCustomerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomerRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// memStudentRepo keeps students in insertion order so creation-order
// semantics are observable in tests.
type memStudentRepo struct {
	mu       sync.RWMutex
	students []*model.Student
}

func newMemStudentRepo() *memStudentRepo { return &memStudentRepo{} }

func (m *memStudentRepo) Save(ctx context.Context, tx repository.Tx, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.students = append(m.students, &cp)
	return nil
}

func (m *memStudentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStudentRepo) ListByCustomer(ctx context.Context, tx repository.Tx, customerID string) ([]*model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Student
	for _, s := range m.students {
		if s.CustomerID == customerID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type memSessionTypeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.SessionType
}

func newMemSessionTypeRepo() *memSessionTypeRepo {
	return &memSessionTypeRepo{store: make(map[string]*model.SessionType)}
}

func (m *memSessionTypeRepo) Save(ctx context.Context, tx repository.Tx, st *model.SessionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	m.store[st.ID] = &cp
	return nil
}

func (m *memSessionTypeRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SessionType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memSessionTypeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.SessionType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.SessionType, 0, len(m.store))
	for _, st := range m.store {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

// memScanCodeRepo mirrors the storage invariants: one row per customer,
// code values unique across all customers.
type memScanCodeRepo struct {
	mu         sync.RWMutex
	byCustomer map[string]*model.ScanCode
}

func newMemScanCodeRepo() *memScanCodeRepo {
	return &memScanCodeRepo{byCustomer: make(map[string]*model.ScanCode)}
}

func (m *memScanCodeRepo) Upsert(ctx context.Context, tx repository.Tx, code *model.ScanCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for customerID, existing := range m.byCustomer {
		if customerID != code.CustomerID && existing.CodeValue == code.CodeValue {
			return domain.ErrDependencyUnavailable
		}
	}
	if existing, ok := m.byCustomer[code.CustomerID]; ok {
		existing.CodeValue = code.CodeValue
		existing.IsActive = true
		existing.UpdatedAt = time.Now()
		return nil
	}
	cp := *code
	m.byCustomer[code.CustomerID] = &cp
	return nil
}

func (m *memScanCodeRepo) FindActiveByValue(ctx context.Context, tx repository.Tx, codeValue string) (*model.ScanCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.byCustomer {
		if c.CodeValue == codeValue && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCodeNotFound
}

func (m *memScanCodeRepo) FindByCustomer(ctx context.Context, tx repository.Tx, customerID string) (*model.ScanCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byCustomer[customerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memScanCodeRepo) TouchLastUsed(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byCustomer {
		if c.ID == id && c.IsActive {
			now := time.Now()
			c.LastUsedAt = &now
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memScanCodeRepo) Deactivate(ctx context.Context, tx repository.Tx, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byCustomer[customerID]; ok {
		c.IsActive = false
	}
	return nil
}

// memAttendanceRepo joins against the student and session type repos for
// detail reads, like the SQL repo does.
type memAttendanceRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.AttendanceRecord
	order    []string
	students *memStudentRepo
	sessions *memSessionTypeRepo

	insertErr error // used by tests to simulate persistence failures
	// UpdateBillingStatusFunc, when set, intercepts status writes.
	UpdateBillingStatusFunc func(ctx context.Context, tx repository.Tx, id string, status model.BillingStatus, billingRef *string) error
}

func newMemAttendanceRepo(students *memStudentRepo, sessions *memSessionTypeRepo) *memAttendanceRepo {
	return &memAttendanceRepo{
		store:    make(map[string]*model.AttendanceRecord),
		students: students,
		sessions: sessions,
	}
}

func (m *memAttendanceRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.AttendanceRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.store[rec.ID] = &cp
	m.order = append(m.order, rec.ID)
	return nil
}

func (m *memAttendanceRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memAttendanceRepo) FindDetail(ctx context.Context, tx repository.Tx, id string) (*model.CheckInDetail, error) {
	rec, err := m.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	student, err := m.students.FindByID(ctx, tx, rec.StudentID)
	if err != nil {
		return nil, err
	}
	sessionType, err := m.sessions.FindByID(ctx, tx, rec.SessionTypeID)
	if err != nil {
		return nil, err
	}
	return &model.CheckInDetail{Record: *rec, Student: *student, SessionType: *sessionType}, nil
}

func (m *memAttendanceRepo) UpdateBillingStatus(ctx context.Context, tx repository.Tx, id string, status model.BillingStatus, billingRef *string) error {
	if m.UpdateBillingStatusFunc != nil {
		return m.UpdateBillingStatusFunc(ctx, tx, id, status, billingRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.BillingStatus = status
	rec.BillingRef = billingRef
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *memAttendanceRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.CheckInDetail, error) {
	m.mu.RLock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	m.mu.RUnlock()

	var out []*model.CheckInDetail
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		d, err := m.FindDetail(ctx, tx, ids[i])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memAttendanceRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.AttendanceRecord
	for _, id := range m.order {
		rec := m.store[id]
		if rec.BillingStatus == model.BillingStatusPending && rec.CheckInTime.Before(olderThan) {
			cp := *rec
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// MockLedgerGateway lets tests script the ledger outcome.
type MockLedgerGateway struct {
	SubmitInvoiceFunc func(ctx context.Context, line model.InvoiceLine) (string, error)

	mu        sync.Mutex
	submitted []model.InvoiceLine
}

func (g *MockLedgerGateway) Name() string { return "mock" }

func (g *MockLedgerGateway) SubmitInvoice(ctx context.Context, line model.InvoiceLine) (string, error) {
	g.mu.Lock()
	g.submitted = append(g.submitted, line)
	g.mu.Unlock()
	if g.SubmitInvoiceFunc != nil {
		return g.SubmitInvoiceFunc(ctx, line)
	}
	return "INV-1", nil
}

func (g *MockLedgerGateway) Submitted() []model.InvoiceLine {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.InvoiceLine, len(g.submitted))
	copy(out, g.submitted)
	return out
}

// MockTxManager runs the callback without a real transaction. Tests that
// need to observe or fail the transaction assign WithTxFunc.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// freeLocker always grants the lock.
type freeLocker struct{}

func (freeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "token", nil
}
func (freeLocker) Unlock(ctx context.Context, key, token string) error { return nil }

// busyLocker never grants the lock.
type busyLocker struct{}

func (busyLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", errors.New("lock held")
}
func (busyLocker) Unlock(ctx context.Context, key, token string) error { return nil }
