/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	payroll data. Each scenario creates employees, advances and one-shot
	entries dated relative to today so a settlement preview shows something
	meaningful right away.

AVAILABLE SCENARIOS:

	monthly-advance:   Monthly salary repaying a 12-installment advance
	weekly-worker:     Weekly pay with a short weekly advance
	deductions-exceed: Deductions larger than salary (net floors at zero)
	pending-approval:  Advances waiting in the approval workflow

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees
 3. Create advances (approved ones are decided through the store)
 4. Add deductions, absences and rewards

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "monthly-advance"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Record handlers used the same way by clients
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "monthly-advance",
		Name:        "Monthly Advance",
		Description: "Monthly salary of 2000 repaying a 1200 advance over 12 months",
	},
	{
		ID:          "weekly-worker",
		Name:        "Weekly Worker",
		Description: "Weekly salary of 500 with a 300 advance over 3 weeks",
	},
	{
		ID:          "deductions-exceed",
		Name:        "Deductions Exceed Salary",
		Description: "Salary 300 with 500 in deductions; net is floored at zero",
	},
	{
		ID:          "pending-approval",
		Name:        "Pending Approval",
		Description: "Two advances awaiting approval; pending advances are never deducted",
	},
}

type scenarioLoader func(h *Handler, ctx context.Context, today generic.TimePoint) error

var scenarioLoaders = map[string]scenarioLoader{
	"monthly-advance":   loadMonthlyAdvanceScenario,
	"weekly-worker":     loadWeeklyWorkerScenario,
	"deductions-exceed": loadDeductionsExceedScenario,
	"pending-approval":  loadPendingApprovalScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}

	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(h, ctx, h.Today()); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Logger.WithField("scenario", req.ScenarioID).Info("scenario loaded")

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadMonthlyAdvanceScenario(h *Handler, ctx context.Context, today generic.TimePoint) error {
	emp := payroll.Employee{
		ID:           "emp-monthly",
		Name:         "Sara Ahmed",
		Email:        "sara@example.com",
		Phone:        "0770 123 4567",
		BranchID:     "branch-baghdad",
		Position:     "Cashier",
		BaseSalary:   generic.NewAmountFromInt(2000),
		PayFrequency: generic.FrequencyMonthly,
		HireDate:     today.AddMonths(-18),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}

	// Requested three months ago: three installments are now due.
	if err := h.seedAdvance(ctx, emp.ID, "adv-monthly-1", 1200, 12, generic.FrequencyMonthly, today.AddMonths(-2), true); err != nil {
		return err
	}

	if err := h.Store.CreateDeduction(ctx, payroll.Deduction{
		ID: "ded-monthly-1", EmployeeID: emp.ID, Amount: generic.NewAmountFromInt(100),
		Date: today.AddDays(-7), Type: payroll.DeductionLate, Reason: "Late arrivals", CreatedBy: "scenario",
	}); err != nil {
		return err
	}
	if err := h.Store.CreateAbsence(ctx, payroll.Absence{
		ID: "abs-monthly-1", EmployeeID: emp.ID, Date: today.AddDays(-10),
		DeductionAmount: generic.NewAmountFromInt(50), Reason: "Unexcused", CreatedBy: "scenario",
	}); err != nil {
		return err
	}
	return h.Store.CreateReward(ctx, payroll.Reward{
		ID: "rew-monthly-1", EmployeeID: emp.ID, Amount: generic.NewAmountFromInt(250),
		Date: today.AddDays(-3), Reason: "Top seller", CreatedBy: "scenario",
	})
}

func loadWeeklyWorkerScenario(h *Handler, ctx context.Context, today generic.TimePoint) error {
	emp := payroll.Employee{
		ID:           "emp-weekly",
		Name:         "Ali Hassan",
		Phone:        "07801234567",
		BranchID:     "branch-basra",
		Position:     "Warehouse",
		BaseSalary:   generic.NewAmountFromInt(500),
		PayFrequency: generic.FrequencyWeekly,
		HireDate:     today.AddMonths(-6),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	return h.seedAdvance(ctx, emp.ID, "adv-weekly-1", 300, 3, generic.FrequencyWeekly, today.AddDays(-8), true)
}

func loadDeductionsExceedScenario(h *Handler, ctx context.Context, today generic.TimePoint) error {
	emp := payroll.Employee{
		ID:           "emp-floor",
		Name:         "Noor Kareem",
		BranchID:     "branch-erbil",
		Position:     "Driver",
		BaseSalary:   generic.NewAmountFromInt(300),
		PayFrequency: generic.FrequencyMonthly,
		HireDate:     today.AddMonths(-3),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.Store.CreateDeduction(ctx, payroll.Deduction{
		ID: "ded-floor-1", EmployeeID: emp.ID, Amount: generic.NewAmountFromInt(350),
		Date: today.AddDays(-5), Type: payroll.DeductionPenalty, Reason: "Vehicle damage", CreatedBy: "scenario",
	}); err != nil {
		return err
	}
	return h.Store.CreateAbsence(ctx, payroll.Absence{
		ID: "abs-floor-1", EmployeeID: emp.ID, Date: today.AddDays(-2),
		DeductionAmount: generic.NewAmountFromInt(150), Reason: "No show", CreatedBy: "scenario",
	})
}

func loadPendingApprovalScenario(h *Handler, ctx context.Context, today generic.TimePoint) error {
	emp := payroll.Employee{
		ID:           "emp-pending",
		Name:         "Zainab Ali",
		BranchID:     "branch-baghdad",
		Position:     "Supervisor",
		BaseSalary:   generic.NewAmountFromInt(1500),
		PayFrequency: generic.FrequencyMonthly,
		HireDate:     today.AddMonths(-24),
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedAdvance(ctx, emp.ID, "adv-pending-1", 600, 6, generic.FrequencyMonthly, today.AddDays(-4), false); err != nil {
		return err
	}
	return h.seedAdvance(ctx, emp.ID, "adv-pending-2", 200, 2, generic.FrequencyMonthly, today.AddDays(-1), false)
}

func (h *Handler) seedAdvance(ctx context.Context, empID generic.EmployeeID, id string, amount int64, period int, freq generic.Frequency, requested generic.TimePoint, approve bool) error {
	adv := payroll.AdvanceRequest{
		ID:                 generic.AdvanceID(id),
		EmployeeID:         empID,
		Amount:             generic.NewAmountFromInt(amount),
		Status:             payroll.AdvancePending,
		RequestDate:        requested,
		RepaymentPeriod:    period,
		RepaymentFrequency: freq,
		PaidAmount:         generic.ZeroAmount,
		Reason:             "Scenario advance",
	}
	if err := h.Store.CreateAdvance(ctx, adv); err != nil {
		return err
	}
	if !approve {
		return nil
	}
	return h.Store.DecideAdvance(ctx, adv.ID, payroll.AdvanceApproved, "scenario", requested)
}
