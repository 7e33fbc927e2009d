/*
handlers_test.go - HTTP tests for the payroll API

Tests for:
- Employee creation and request validation
- Advance approval workflow and actor propagation
- Settlement preview and payment (including double-pay protection)
- Error mapping (404, 409, 422)
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/settlement"
	"github.com/warp/payroll-engine/store/sqlite"
)

var testToday = generic.NewTimePoint(2024, 5, 31)

type testEnv struct {
	store   *sqlite.Store
	handler *Handler
	router  *chi.Mux
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	svc := settlement.NewService(store, notify.NewInApp(store), logger)
	svc.Today = func() generic.TimePoint { return testToday }

	h := NewHandler(store, svc, logger)
	h.Today = func() generic.TimePoint { return testToday }

	return &testEnv{store: store, handler: h, router: NewRouter(h, nil)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, actor string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func seedEmployee(t *testing.T, store *sqlite.Store, salary int64) payroll.Employee {
	t.Helper()
	emp := payroll.Employee{
		ID:           "emp-1",
		Name:         "Sara Ahmed",
		Phone:        "07701234567",
		BaseSalary:   generic.NewAmountFromInt(salary),
		PayFrequency: generic.FrequencyMonthly,
		HireDate:     generic.NewTimePoint(2023, 1, 15),
	}
	require.NoError(t, store.SaveEmployee(context.Background(), emp))
	return emp
}

func seedApprovedAdvance(t *testing.T, store *sqlite.Store, id string, amount int64, period int, requested generic.TimePoint) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateAdvance(ctx, payroll.AdvanceRequest{
		ID:                 generic.AdvanceID(id),
		EmployeeID:         "emp-1",
		Amount:             generic.NewAmountFromInt(amount),
		Status:             payroll.AdvancePending,
		RequestDate:        requested,
		RepaymentPeriod:    period,
		RepaymentFrequency: generic.FrequencyMonthly,
		PaidAmount:         generic.ZeroAmount,
	}))
	require.NoError(t, store.DecideAdvance(ctx, generic.AdvanceID(id), payroll.AdvanceApproved, "boss", requested))
}

func TestCreateEmployee(t *testing.T) {
	env := setupTestEnv(t)

	// GIVEN: A valid employee payload
	body := CreateEmployeeRequest{
		ID:           "emp-42",
		Name:         "Ali Hassan",
		Salary:       1500,
		PayFrequency: "weekly",
		HireDate:     "2024-01-08",
	}

	// WHEN: Creating it
	rec := env.do(t, http.MethodPost, "/api/employees", body, "")

	// THEN: It is stored and returned
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/employees/emp-42", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dto EmployeeDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "Ali Hassan", dto.Name)
	assert.Equal(t, 1500.0, dto.Salary)
	assert.Equal(t, "weekly", dto.PayFrequency)
}

func TestCreateEmployee_ValidationFails(t *testing.T) {
	env := setupTestEnv(t)

	// GIVEN: A payload with no name and a negative salary
	body := CreateEmployeeRequest{Salary: -10, HireDate: "2024-01-08"}

	// WHEN: Creating it
	rec := env.do(t, http.MethodPost, "/api/employees", body, "")

	// THEN: 400 with the failing fields
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "invalid_request", resp.Code)
	assert.Equal(t, "required", resp.Details["Name"])
	assert.Equal(t, "gte", resp.Details["Salary"])
}

func TestGetEmployee_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees/nobody", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvanceWorkflow_ApproveRecordsActor(t *testing.T) {
	env := setupTestEnv(t)
	seedEmployee(t, env.store, 2000)

	// GIVEN: A submitted advance
	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/advances", CreateAdvanceRequest{
		Amount:          600,
		RequestDate:     "2024-05-02",
		RepaymentPeriod: 6,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created AdvanceDTO
	decodeBody(t, rec, &created)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "monthly", created.RepaymentFrequency)

	// WHEN: A manager approves it
	rec = env.do(t, http.MethodPost, "/api/advances/"+created.ID+"/approve", nil, "manager-7")

	// THEN: It is approved by that manager, and the employee is notified
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var approved AdvanceDTO
	decodeBody(t, rec, &approved)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "manager-7", approved.ApprovedBy)
	assert.Equal(t, testToday.String(), approved.ApprovedDate)

	has, err := env.store.HasNotification(context.Background(), "emp-1", notify.ActionAdvance, created.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// AND: A second decision is rejected
	rec = env.do(t, http.MethodPost, "/api/advances/"+created.ID+"/reject", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApproveAdvance_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/advances/missing/approve", nil, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewSettlement(t *testing.T) {
	env := setupTestEnv(t)
	seedEmployee(t, env.store, 2000)
	// Three monthly installments of 100 have started by May 31.
	seedApprovedAdvance(t, env.store, "adv-1", 1200, 12, generic.NewTimePoint(2024, 3, 10))

	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/deductions",
		EntryRequest{Amount: 100, Date: "2024-05-20", Type: "late"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/api/employees/emp-1/rewards",
		EntryRequest{Amount: 250, Date: "2024-05-25"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN: Previewing as of May 31
	rec = env.do(t, http.MethodGet, "/api/employees/emp-1/settlement?as_of=2024-05-31", nil, "")

	// THEN: 2000 - 300 - 100 + 250
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto SettlementDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, 300.0, dto.TotalAdvanceDue)
	assert.Equal(t, 100.0, dto.TotalDeductions)
	assert.Equal(t, 250.0, dto.TotalRewards)
	assert.Equal(t, 1850.0, dto.NetSalary)
	require.Len(t, dto.AdvanceLines, 1)
	assert.Equal(t, 3, dto.AdvanceLines[0].DuePeriods)
	assert.Equal(t, 100.0, dto.AdvanceLines[0].InstallmentAmount)

	// AND: Nothing was persisted
	adv, err := env.store.GetAdvance(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.True(t, adv.PaidAmount.IsZero())
}

func TestPaySalary_PersistsAndBlocksDoublePay(t *testing.T) {
	env := setupTestEnv(t)
	seedEmployee(t, env.store, 2000)
	seedApprovedAdvance(t, env.store, "adv-1", 1200, 12, generic.NewTimePoint(2024, 3, 10))

	// WHEN: Paying the salary
	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/payments", PaySalaryRequest{Notes: "May"}, "cashier-1")

	// THEN: Payment is recorded with the acting operator
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp PaySalaryResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1700.0, resp.Payment.NetSalary)
	assert.Equal(t, "cashier-1", resp.Payment.PaidBy)
	assert.Equal(t, "2024-05", resp.Payment.Period)
	assert.Equal(t, 1, resp.Attempts)

	adv, err := env.store.GetAdvance(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.Equal(t, "300", adv.PaidAmount.String())
	assert.Equal(t, payroll.AdvancePartiallyPaid, adv.Status)

	// AND: The employee got a salary notification
	rec = env.do(t, http.MethodGet, "/api/employees/emp-1/notifications", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var notes struct {
		Notifications []NotificationDTO `json:"notifications"`
	}
	decodeBody(t, rec, &notes)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, "payment", notes.Notifications[0].ActionType)

	// WHEN: Paying again for the same day
	rec = env.do(t, http.MethodPost, "/api/employees/emp-1/payments", nil, "")

	// THEN: Conflict, nothing changes
	assert.Equal(t, http.StatusConflict, rec.Code)
	payments, err := env.store.ListPayments(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestPaySalary_InvalidInputReturns422(t *testing.T) {
	env := setupTestEnv(t)
	seedEmployee(t, env.store, 2000)

	// GIVEN: An advance whose paid amount exceeds its amount
	require.NoError(t, env.store.CreateAdvance(context.Background(), payroll.AdvanceRequest{
		ID:                 "adv-bad",
		EmployeeID:         "emp-1",
		Amount:             generic.NewAmountFromInt(100),
		PaidAmount:         generic.NewAmountFromInt(150),
		Status:             payroll.AdvancePartiallyPaid,
		RequestDate:        generic.NewTimePoint(2024, 1, 1),
		RepaymentPeriod:    2,
		RepaymentFrequency: generic.FrequencyMonthly,
	}))

	// WHEN: Paying
	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/payments", nil, "")

	// THEN: 422 naming the employee and field, and no payment
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	var resp struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "validation_error", resp.Code)
	assert.Equal(t, "emp-1", resp.Details["employee_id"])
	assert.Equal(t, "adv-bad", resp.Details["record_id"])

	payments, err := env.store.ListPayments(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestGetNextPayday(t *testing.T) {
	env := setupTestEnv(t)
	seedEmployee(t, env.store, 2000)

	// Hired on the 15th, never paid, today is May 31.
	rec := env.do(t, http.MethodGet, "/api/employees/emp-1/next-payday", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var dto NextPaydayDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, "2024-06-15", dto.NextPayDate)
	assert.False(t, dto.Due)
}

func TestLoadScenario(t *testing.T) {
	env := setupTestEnv(t)

	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: s.ID}, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			employees, err := env.store.ListEmployees(context.Background())
			require.NoError(t, err)
			require.Len(t, employees, 1)

			// Every scenario can be previewed without errors.
			rec = env.do(t, http.MethodGet, "/api/employees/"+string(employees[0].ID)+"/settlement", nil, "")
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}

	rec := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_DeductionsExceedFloorsAtZero(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "deductions-exceed"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/employees/emp-floor/settlement", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dto SettlementDTO
	decodeBody(t, rec, &dto)
	assert.Equal(t, 0.0, dto.NetSalary)
	assert.Equal(t, 500.0, dto.TotalDeductions)
	assert.Equal(t, 200.0, dto.Shortfall)
	assert.Empty(t, dto.AdvanceLedgerUpdates)
}
