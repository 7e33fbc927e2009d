/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes employee records, the advance workflow and salary settlement via
  REST. Handles HTTP request/response, JSON serialization and validation,
  and delegates to the payroll and settlement packages.

ENDPOINTS:
  Employees:
    GET    /api/employees                      List all employees
    POST   /api/employees                      Create or update employee
    GET    /api/employees/{id}                 Get employee details
    GET    /api/employees/{id}/next-payday     Next scheduled pay date

  Records:
    GET    /api/employees/{id}/advances        List advances
    POST   /api/employees/{id}/advances        Submit advance (pending)
    GET    /api/employees/{id}/deductions      List deductions
    POST   /api/employees/{id}/deductions      Record deduction
    GET    /api/employees/{id}/absences        List absences
    POST   /api/employees/{id}/absences        Record absence
    GET    /api/employees/{id}/rewards         List rewards
    POST   /api/employees/{id}/rewards         Record reward

  Advance workflow:
    GET    /api/advances/{id}                  Get advance
    POST   /api/advances/{id}/approve          Approve pending advance
    POST   /api/advances/{id}/reject           Reject pending advance

  Settlement:
    GET    /api/employees/{id}/settlement      Preview (?as_of=YYYY-MM-DD)
    POST   /api/employees/{id}/payments        Pay salary
    GET    /api/employees/{id}/payments        Payment history

  Notifications:
    GET    /api/employees/{id}/notifications   In-app notifications

ACTOR:
  The acting operator is read from the X-Actor-ID header by actorMiddleware
  and passed explicitly to every write (approved_by, created_by, paid_by).

ERROR HANDLING:
  - 400: Malformed body, failed field validation
  - 404: Employee or advance not found
  - 409: Invalid transition, already settled, concurrency retries exhausted
  - 422: Settlement input failed validation (names employee and field)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/settlement"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence the API needs.
type Store interface {
	payroll.Repository
	notify.Store
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Settlement *settlement.Service
	Logger     logrus.FieldLogger

	Today func() generic.TimePoint
	NewID func() string

	validate *validator.Validate

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler. The settlement service must share store.
func NewHandler(store Store, svc *settlement.Service, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		Store:      store,
		Settlement: svc,
		Logger:     logger.WithField("module", "api"),
		Today:      generic.Today,
		NewID:      uuid.NewString,
		validate:   validator.New(),
	}
}

// =============================================================================
// ACTOR
// =============================================================================

type actorKey struct{}

const (
	ActorHeader  = "X-Actor-ID"
	defaultActor = "admin"
)

func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := r.Header.Get(ActorHeader)
		if actor == "" {
			actor = defaultActor
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func actorFrom(r *http.Request) string {
	if a, ok := r.Context().Value(actorKey{}).(string); ok {
		return a
	}
	return defaultActor
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": dtos})
}

// CreateEmployee creates or updates an employee.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	hire, err := generic.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date (use YYYY-MM-DD)", err)
		return
	}
	freq, err := generic.ParseFrequency(req.PayFrequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment_frequency", err)
		return
	}

	id := req.ID
	if id == "" {
		id = h.NewID()
	}
	emp := payroll.Employee{
		ID:           generic.EmployeeID(id),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		BranchID:     req.BranchID,
		Position:     req.Position,
		BaseSalary:   amountFromFloat(req.Salary),
		PayFrequency: freq,
		HireDate:     hire,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// GetNextPayday reports the next scheduled pay date.
// GET /api/employees/{id}/next-payday
func (h *Handler) GetNextPayday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}

	last, err := h.Store.LastPayment(ctx, emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load last payment", err)
		return
	}

	var lastDate *generic.TimePoint
	dto := NextPaydayDTO{EmployeeID: string(emp.ID)}
	if last != nil {
		lastDate = &last.PaymentDate
		dto.LastPayment = last.PaymentDate.String()
	}
	today := h.Today()
	dto.NextPayDate = payroll.NextPayDate(*emp, lastDate, today).String()
	dto.Due = payroll.IsPayDue(*emp, lastDate, today)

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ADVANCE HANDLERS
// =============================================================================

// ListAdvances returns the employee's advances.
func (h *Handler) ListAdvances(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	advances, err := h.Store.ListAdvances(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list advances", err)
		return
	}

	dtos := make([]AdvanceDTO, 0, len(advances))
	for _, a := range advances {
		dtos = append(dtos, toAdvanceDTO(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"advances": dtos})
}

// CreateAdvance submits a new advance request. It starts pending.
// POST /api/employees/{id}/advances
func (h *Handler) CreateAdvance(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	var req CreateAdvanceRequest
	if !h.decode(w, r, &req) {
		return
	}

	requestDate, ok := h.dateOrToday(w, req.RequestDate)
	if !ok {
		return
	}
	freq, err := generic.ParseFrequency(req.RepaymentFrequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid repayment_type", err)
		return
	}

	adv := payroll.AdvanceRequest{
		ID:                 generic.AdvanceID(h.NewID()),
		EmployeeID:         emp.ID,
		Amount:             amountFromFloat(req.Amount),
		Status:             payroll.AdvancePending,
		RequestDate:        requestDate,
		RepaymentPeriod:    req.RepaymentPeriod,
		RepaymentFrequency: freq,
		PaidAmount:         generic.ZeroAmount,
		Reason:             req.Reason,
		Notes:              req.Notes,
	}
	if err := h.Store.CreateAdvance(r.Context(), adv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create advance", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAdvanceDTO(adv))
}

// GetAdvance returns a single advance.
func (h *Handler) GetAdvance(w http.ResponseWriter, r *http.Request) {
	id := generic.AdvanceID(chi.URLParam(r, "id"))
	adv, err := h.Store.GetAdvance(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdvanceDTO(*adv))
}

// ApproveAdvance approves a pending advance.
// POST /api/advances/{id}/approve
func (h *Handler) ApproveAdvance(w http.ResponseWriter, r *http.Request) {
	h.decideAdvance(w, r, payroll.AdvanceApproved)
}

// RejectAdvance rejects a pending advance.
// POST /api/advances/{id}/reject
func (h *Handler) RejectAdvance(w http.ResponseWriter, r *http.Request) {
	h.decideAdvance(w, r, payroll.AdvanceRejected)
}

func (h *Handler) decideAdvance(w http.ResponseWriter, r *http.Request, status payroll.AdvanceStatus) {
	ctx := r.Context()
	id := generic.AdvanceID(chi.URLParam(r, "id"))

	var req DecisionRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	on, ok := h.dateOrToday(w, req.Date)
	if !ok {
		return
	}

	actor := actorFrom(r)
	if err := h.Store.DecideAdvance(ctx, id, status, actor, on); err != nil {
		h.writeServiceError(w, err)
		return
	}

	adv, err := h.Store.GetAdvance(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.notifyEmployee(ctx, notify.Notification{
		UserID:     string(adv.EmployeeID),
		Title:      "Advance " + string(status),
		Message:    "Your advance request of " + adv.Amount.Display() + " was " + string(status),
		Type:       decisionType(status),
		ActionType: notify.ActionAdvance,
		ActionID:   string(adv.ID),
	})

	h.Logger.WithFields(logrus.Fields{
		"advance_id":  id,
		"employee_id": adv.EmployeeID,
		"status":      status,
		"by":          actor,
	}).Info("advance decided")

	writeJSON(w, http.StatusOK, toAdvanceDTO(*adv))
}

func decisionType(status payroll.AdvanceStatus) notify.Type {
	if status == payroll.AdvanceApproved {
		return notify.TypeSuccess
	}
	return notify.TypeDanger
}

// =============================================================================
// ONE-SHOT ENTRY HANDLERS
// =============================================================================

// CreateDeduction records a manual deduction.
// POST /api/employees/{id}/deductions
func (h *Handler) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	emp, req, date, ok := h.entryRequest(w, r)
	if !ok {
		return
	}
	kind := payroll.DeductionType(req.Type)
	if kind == "" {
		kind = payroll.DeductionOther
	}

	d := payroll.Deduction{
		ID:         h.NewID(),
		EmployeeID: emp.ID,
		Amount:     amountFromFloat(req.Amount),
		Date:       date,
		Type:       kind,
		Reason:     req.Reason,
		CreatedBy:  actorFrom(r),
	}
	if err := h.Store.CreateDeduction(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create deduction", err)
		return
	}

	h.notifyEmployee(r.Context(), notify.Notification{
		UserID:     string(emp.ID),
		Title:      "Deduction recorded",
		Message:    "A deduction of " + d.Amount.Display() + " was recorded on " + d.Date.String(),
		Type:       notify.TypeWarning,
		ActionType: notify.ActionDeduction,
		ActionID:   d.ID,
	})

	writeJSON(w, http.StatusCreated, EntryDTO{
		ID: d.ID, EmployeeID: string(d.EmployeeID), Amount: d.Amount.Float64(),
		Date: d.Date.String(), Type: string(d.Type), Reason: d.Reason, CreatedBy: d.CreatedBy,
	})
}

// CreateAbsence records an absence with its own penalty amount.
// POST /api/employees/{id}/absences
func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	emp, req, date, ok := h.entryRequest(w, r)
	if !ok {
		return
	}

	a := payroll.Absence{
		ID:              h.NewID(),
		EmployeeID:      emp.ID,
		Date:            date,
		DeductionAmount: amountFromFloat(req.Amount),
		Reason:          req.Reason,
		CreatedBy:       actorFrom(r),
	}
	if err := h.Store.CreateAbsence(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create absence", err)
		return
	}

	h.notifyEmployee(r.Context(), notify.Notification{
		UserID:     string(emp.ID),
		Title:      "Absence recorded",
		Message:    "An absence was recorded on " + a.Date.String(),
		Type:       notify.TypeWarning,
		ActionType: notify.ActionAbsence,
		ActionID:   a.ID,
	})

	writeJSON(w, http.StatusCreated, EntryDTO{
		ID: a.ID, EmployeeID: string(a.EmployeeID), Amount: a.DeductionAmount.Float64(),
		Date: a.Date.String(), Reason: a.Reason, CreatedBy: a.CreatedBy,
	})
}

// CreateReward records a one-shot bonus.
// POST /api/employees/{id}/rewards
func (h *Handler) CreateReward(w http.ResponseWriter, r *http.Request) {
	emp, req, date, ok := h.entryRequest(w, r)
	if !ok {
		return
	}

	rw := payroll.Reward{
		ID:         h.NewID(),
		EmployeeID: emp.ID,
		Amount:     amountFromFloat(req.Amount),
		Date:       date,
		Reason:     req.Reason,
		Notes:      req.Notes,
		CreatedBy:  actorFrom(r),
	}
	if err := h.Store.CreateReward(r.Context(), rw); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create reward", err)
		return
	}

	writeJSON(w, http.StatusCreated, EntryDTO{
		ID: rw.ID, EmployeeID: string(rw.EmployeeID), Amount: rw.Amount.Float64(),
		Date: rw.Date.String(), Reason: rw.Reason, CreatedBy: rw.CreatedBy,
	})
}

// ListDeductions returns the employee's deductions.
func (h *Handler) ListDeductions(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	entries, err := h.Store.ListDeductions(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list deductions", err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, d := range entries {
		dtos = append(dtos, EntryDTO{
			ID: d.ID, EmployeeID: string(d.EmployeeID), Amount: d.Amount.Float64(),
			Date: d.Date.String(), Type: string(d.Type), Reason: d.Reason, CreatedBy: d.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"deductions": dtos})
}

// ListAbsences returns the employee's absences.
func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	entries, err := h.Store.ListAbsences(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list absences", err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, a := range entries {
		dtos = append(dtos, EntryDTO{
			ID: a.ID, EmployeeID: string(a.EmployeeID), Amount: a.DeductionAmount.Float64(),
			Date: a.Date.String(), Reason: a.Reason, CreatedBy: a.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"absences": dtos})
}

// ListRewards returns the employee's rewards.
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	entries, err := h.Store.ListRewards(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rewards", err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, rw := range entries {
		dtos = append(dtos, EntryDTO{
			ID: rw.ID, EmployeeID: string(rw.EmployeeID), Amount: rw.Amount.Float64(),
			Date: rw.Date.String(), Reason: rw.Reason, CreatedBy: rw.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rewards": dtos})
}

func (h *Handler) entryRequest(w http.ResponseWriter, r *http.Request) (*payroll.Employee, EntryRequest, generic.TimePoint, bool) {
	var req EntryRequest
	emp, ok := h.employee(w, r)
	if !ok {
		return nil, req, generic.TimePoint{}, false
	}
	if !h.decode(w, r, &req) {
		return nil, req, generic.TimePoint{}, false
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return nil, req, generic.TimePoint{}, false
	}
	return emp, req, date, true
}

// =============================================================================
// SETTLEMENT HANDLERS
// =============================================================================

// PreviewSettlement computes the settlement without persisting anything.
// GET /api/employees/{id}/settlement?as_of=YYYY-MM-DD
func (h *Handler) PreviewSettlement(w http.ResponseWriter, r *http.Request) {
	id := generic.EmployeeID(chi.URLParam(r, "id"))
	asOf, ok := h.dateOrToday(w, r.URL.Query().Get("as_of"))
	if !ok {
		return
	}

	result, err := h.Settlement.Preview(r.Context(), id, asOf)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettlementDTO(result))
}

// PaySalary settles and persists the employee's current window.
// POST /api/employees/{id}/payments
func (h *Handler) PaySalary(w http.ResponseWriter, r *http.Request) {
	id := generic.EmployeeID(chi.URLParam(r, "id"))

	var req PaySalaryRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}
	date, ok := h.dateOrToday(w, req.Date)
	if !ok {
		return
	}

	outcome, err := h.Settlement.Settle(r.Context(), settlement.Request{
		EmployeeID:     id,
		EvaluationDate: date,
		PaidBy:         actorFrom(r),
		Notes:          req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PaySalaryResponse{
		Payment:    toPaymentDTO(outcome.Payment),
		Settlement: toSettlementDTO(outcome.Result),
		Attempts:   outcome.Attempts,
	})
}

// ListPayments returns payment history, newest first.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.employee(w, r)
	if !ok {
		return
	}
	payments, err := h.Store.ListPayments(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, toPaymentDTO(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": dtos})
}

// =============================================================================
// NOTIFICATION HANDLERS
// =============================================================================

// ListNotifications returns the employee's in-app notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	items, err := h.Store.ListNotifications(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}
	dtos := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": dtos})
}

// notifyEmployee stores an in-app notification; failures are only logged.
func (h *Handler) notifyEmployee(ctx context.Context, n notify.Notification) {
	if err := notify.NewInApp(h.Store).Notify(ctx, n); err != nil {
		h.Logger.WithError(err).WithField("employee_id", n.UserID).Warn("notification failed")
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) employee(w http.ResponseWriter, r *http.Request) (*payroll.Employee, bool) {
	id := generic.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return nil, false
	}
	return emp, true
}

// decode reads a JSON body into dst and runs struct validation.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request",
				Code:    "invalid_request",
				Details: details,
			})
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

func (h *Handler) dateOrToday(w http.ResponseWriter, s string) (generic.TimePoint, bool) {
	if s == "" {
		return h.Today(), true
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return generic.TimePoint{}, false
	}
	return d, true
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "Settlement input is invalid",
			Code:  "validation_error",
			Details: map[string]string{
				"employee_id": string(verr.EmployeeID),
				"record_id":   verr.RecordID,
				"field":       verr.Field,
				"reason":      verr.Reason,
			},
		})
	case generic.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, generic.ErrAlreadySettled):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "already_settled"})
	case errors.Is(err, generic.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "invalid_transition"})
	case generic.IsRetryable(err):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "concurrent_modification"})
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		h.Logger.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
