// File: internal/infra/api/apiv1/server.go
package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/infra/api"
	"tutoring-checkin/internal/usecase"
)

// Server is the request boundary for the check-in core. Staff identity
// arrives as a trusted parameter; there is no authentication here.
type Server struct {
	customers    usecase.CustomerUseCase
	codes        usecase.CodeUseCase
	checkIns     usecase.CheckInUseCase
	billing      usecase.BillingUseCase
	sessionTypes usecase.SessionTypeUseCase
	log          *zerolog.Logger
}

func NewServer(
	customers usecase.CustomerUseCase,
	codes usecase.CodeUseCase,
	checkIns usecase.CheckInUseCase,
	billing usecase.BillingUseCase,
	sessionTypes usecase.SessionTypeUseCase,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "apiv1").Logger()
	return &Server{
		customers:    customers,
		codes:        codes,
		checkIns:     checkIns,
		billing:      billing,
		sessionTypes: sessionTypes,
		log:          &l,
	}
}

// Router builds the chi router with all v1 routes mounted.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(api.TraceID(), api.Recover(s.log), api.RequestLog(s.log))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/customers", s.handleRegisterCustomer)
		r.Post("/customers/{id}/students", s.handleAddStudent)
		r.Post("/codes", s.handleIssueCode)
		r.Post("/check-ins", s.handleCheckIn)
		r.Get("/check-ins", s.handleHistory)
		r.Post("/billing/sync", s.handleBillingSync)
		r.Get("/billing/status", s.handleBillingStatus)
		r.Post("/session-types", s.handleCreateSessionType)
		r.Get("/session-types", s.handleListSessionTypes)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

//
// ---------------- customers ----------------
//

type registerCustomerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type customerResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Server) handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	c, err := s.customers.Register(r.Context(), req.Email, req.FirstName, req.LastName, req.Phone, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerResponse{ID: c.ID, Email: c.Email, FirstName: c.FirstName, LastName: c.LastName})
}

type addStudentRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Notes     string `json:"notes"`
}

type studentResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	var req addStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	st, err := s.customers.AddStudent(r.Context(), customerID, req.FirstName, req.LastName, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, studentResponse{ID: st.ID, CustomerID: st.CustomerID, FirstName: st.FirstName, LastName: st.LastName})
}

//
// ---------------- scan codes ----------------
//

type issueCodeRequest struct {
	CustomerID string `json:"customerId"`
}

type scanCodeResponse struct {
	CodeValue  string     `json:"codeValue"`
	CustomerID string     `json:"customerId"`
	IsActive   bool       `json:"isActive"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

func (s *Server) handleIssueCode(w http.ResponseWriter, r *http.Request) {
	var req issueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	code, err := s.codes.Issue(r.Context(), req.CustomerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scanCodeResponse{
		CodeValue:  code.CodeValue,
		CustomerID: code.CustomerID,
		IsActive:   code.IsActive,
		LastUsedAt: code.LastUsedAt,
	})
}

//
// ---------------- check-ins ----------------
//

type checkInRequest struct {
	CodeValue     string `json:"codeValue"`
	SessionTypeID string `json:"sessionTypeId"`
	StaffID       string `json:"staffId"`
	Notes         string `json:"notes"`
}

type checkInResponse struct {
	ID            string  `json:"id"`
	CheckInTime   string  `json:"checkInTime"`
	StudentName   string  `json:"studentName"`
	SessionType   string  `json:"sessionType"`
	BillingStatus string  `json:"billingStatus"`
	BillingRef    *string `json:"billingRef"`
	Notes         string  `json:"notes,omitempty"`
}

func detailToResponse(d *model.CheckInDetail) checkInResponse {
	return checkInResponse{
		ID:            d.Record.ID,
		CheckInTime:   d.Record.CheckInTime.Format(time.RFC3339),
		StudentName:   d.Student.FullName(),
		SessionType:   d.SessionType.Name,
		BillingStatus: string(d.Record.BillingStatus),
		BillingRef:    d.Record.BillingRef,
		Notes:         d.Record.Notes,
	}
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	if req.CodeValue == "" || req.SessionTypeID == "" || req.StaffID == "" {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	customerID, err := s.codes.Validate(r.Context(), req.CodeValue)
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := s.checkIns.RecordCheckIn(r.Context(), customerID, req.SessionTypeID, req.StaffID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detailToResponse(detail))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	details, err := s.checkIns.History(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]checkInResponse, 0, len(details))
	for _, d := range details {
		items = append(items, detailToResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

//
// ---------------- billing ----------------
//

type billingSyncRequest struct {
	RecordID string `json:"recordId"`
}

type billingSyncResponse struct {
	RecordID      string  `json:"recordId"`
	BillingStatus string  `json:"billingStatus"`
	BillingRef    *string `json:"billingRef"`
}

func (s *Server) handleBillingSync(w http.ResponseWriter, r *http.Request) {
	var req billingSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	rec, err := s.billing.SyncRecord(r.Context(), req.RecordID)
	if err != nil {
		// A billing rejection still carries the record's terminal state.
		if rec != nil && errors.Is(err, domain.ErrBillingRejected) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error": errorBody{Kind: "billing_rejected", Message: err.Error()},
				"record": billingSyncResponse{
					RecordID:      rec.ID,
					BillingStatus: string(rec.BillingStatus),
					BillingRef:    rec.BillingRef,
				},
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, billingSyncResponse{
		RecordID:      rec.ID,
		BillingStatus: string(rec.BillingStatus),
		BillingRef:    rec.BillingRef,
	})
}

type billingStatusRow struct {
	RecordID      string  `json:"recordId"`
	CheckInTime   string  `json:"checkInTime"`
	StudentName   string  `json:"studentName"`
	SessionType   string  `json:"sessionType"`
	BillingStatus string  `json:"billingStatus"`
	BillingRef    *string `json:"billingRef"`
}

func (s *Server) handleBillingStatus(w http.ResponseWriter, r *http.Request) {
	details, err := s.billing.StatusList(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]billingStatusRow, 0, len(details))
	for _, d := range details {
		items = append(items, billingStatusRow{
			RecordID:      d.Record.ID,
			CheckInTime:   d.Record.CheckInTime.Format(time.RFC3339),
			StudentName:   d.Student.FullName(),
			SessionType:   d.SessionType.Name,
			BillingStatus: string(d.Record.BillingStatus),
			BillingRef:    d.Record.BillingRef,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

//
// ---------------- session types ----------------
//

type sessionTypeRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	UnitPrice       int64   `json:"unitPrice"` // cents
	DurationMinutes int     `json:"durationMinutes"`
	LedgerItemRef   *string `json:"ledgerItemRef"`
}

type sessionTypeResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	UnitPrice       int64   `json:"unitPrice"`
	DurationMinutes int     `json:"durationMinutes"`
	LedgerItemRef   *string `json:"ledgerItemRef"`
}

func (s *Server) handleCreateSessionType(w http.ResponseWriter, r *http.Request) {
	var req sessionTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	st, err := s.sessionTypes.Create(r.Context(), req.Name, req.Description, req.UnitPrice, req.DurationMinutes, req.LedgerItemRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionTypeResponse{ID: st.ID, Name: st.Name, UnitPrice: st.UnitPrice, DurationMinutes: st.DurationMinutes, LedgerItemRef: st.LedgerItemRef})
}

func (s *Server) handleListSessionTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.sessionTypes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]sessionTypeResponse, 0, len(list))
	for _, st := range list {
		items = append(items, sessionTypeResponse{ID: st.ID, Name: st.Name, UnitPrice: st.UnitPrice, DurationMinutes: st.DurationMinutes, LedgerItemRef: st.LedgerItemRef})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

//
// ---------------- helpers ----------------
//

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto the error taxonomy of the API.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrCodeNotFound):
		// Unknown and deactivated codes are reported identically.
		status, kind = http.StatusBadRequest, "invalid_code"
	case errors.Is(err, domain.ErrNoStudentsFound):
		status, kind = http.StatusBadRequest, "no_students"
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, kind = http.StatusConflict, "already_exists"
	case errors.Is(err, domain.ErrSyncInProgress):
		status, kind = http.StatusConflict, "sync_in_progress"
	case errors.Is(err, domain.ErrBillingRejected):
		status, kind = http.StatusBadGateway, "billing_rejected"
	case errors.Is(err, domain.ErrDependencyUnavailable):
		status, kind = http.StatusServiceUnavailable, "dependency_unavailable"
	default:
		status, kind = http.StatusInternalServerError, "internal"
	}
	writeJSON(w, status, map[string]any{"error": errorBody{Kind: kind, Message: err.Error()}})
}

func limitParam(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return 0
}
