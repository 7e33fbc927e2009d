package payroll

import (
	"fmt"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// SETTLEMENT INPUT / RESULT
// =============================================================================

// Input is a read-only snapshot of everything one settlement needs. All
// collections belong to Employee; entries for other employees are skipped
// with a warning.
type Input struct {
	Employee        Employee
	Advances        []AdvanceRequest
	Deductions      []Deduction
	Absences        []Absence
	Rewards         []Reward
	LastPaymentDate *generic.TimePoint
	EvaluationDate  generic.TimePoint // zero = today
}

type Result struct {
	EmployeeID generic.EmployeeID
	Window     generic.Window

	BaseSalary             generic.Amount
	TotalAdvanceDue        generic.Amount
	TotalManualDeductions  generic.Amount
	TotalAbsenceDeductions generic.Amount
	TotalDeductions        generic.Amount // unfloored, for display
	TotalRewards           generic.Amount
	NetSalary              generic.Amount

	// Shortfall is what the zero floor absorbed. It is reported, not carried
	// forward: deductions in this window are consumed regardless.
	Shortfall generic.Amount

	AdvanceLines         []AdvanceLine
	AdvanceLedgerUpdates []LedgerUpdate
	Warnings             []DataIntegrityWarning
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes settlements. The zero value is ready to use.
type Calculator struct {
	// StrictRepaymentPeriod rejects advances with a non-positive repayment
	// period instead of treating them as a single installment.
	StrictRepaymentPeriod bool

	// Today supplies the evaluation date when Input.EvaluationDate is zero.
	Today func() generic.TimePoint
}

// ComputeSettlement runs the default calculator. A nil lastPaymentDate means
// the employee was never paid; a zero evaluationDate means today.
func ComputeSettlement(
	employee Employee,
	advances []AdvanceRequest,
	deductions []Deduction,
	absences []Absence,
	rewards []Reward,
	lastPaymentDate *generic.TimePoint,
	evaluationDate generic.TimePoint,
) (Result, error) {
	var c Calculator
	return c.Compute(Input{
		Employee:        employee,
		Advances:        advances,
		Deductions:      deductions,
		Absences:        absences,
		Rewards:         rewards,
		LastPaymentDate: lastPaymentDate,
		EvaluationDate:  evaluationDate,
	})
}

// Compute returns the settlement for in.
//
// It fails with *ValidationError for a negative base salary, an advance whose
// paid amount exceeds its principal, negative entry amounts, an evaluation
// date before the last payment, or (in strict mode) a non-positive repayment
// period. A negative net before flooring is expected and is not an error.
func (c *Calculator) Compute(in Input) (Result, error) {
	emp := in.Employee

	eval := in.EvaluationDate
	if eval.IsZero() {
		if c.Today != nil {
			eval = c.Today()
		} else {
			eval = generic.Today()
		}
	}

	window := generic.WindowSince(in.LastPaymentDate, eval)
	if err := window.Validate(); err != nil {
		return Result{}, &ValidationError{
			EmployeeID: emp.ID,
			Field:      "evaluation_date",
			Reason:     err.Error(),
		}
	}

	if emp.BaseSalary.IsNegative() {
		return Result{}, &ValidationError{
			EmployeeID: emp.ID,
			Field:      "base_salary",
			Reason:     fmt.Sprintf("must not be negative, got %s", emp.BaseSalary),
		}
	}

	var warnings []DataIntegrityWarning
	advances, w, err := c.checkAdvances(emp.ID, in.Advances)
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, w...)

	deductions, absences, rewards, w, err := checkEntries(emp.ID, in.Deductions, in.Absences, in.Rewards)
	if err != nil {
		return Result{}, err
	}
	warnings = append(warnings, w...)

	result := Result{
		EmployeeID:           emp.ID,
		Window:               window,
		BaseSalary:           emp.BaseSalary,
		AdvanceLines:         []AdvanceLine{},
		AdvanceLedgerUpdates: []LedgerUpdate{},
		Warnings:             warnings,
	}

	// Advances
	totalAdvance := generic.ZeroAmount
	for _, a := range advances {
		line, ok := amortize(a.AdvanceRequest, a.period, window)
		if !ok {
			continue
		}
		totalAdvance = totalAdvance.Add(line.DueAmount)
		result.AdvanceLines = append(result.AdvanceLines, line)
		result.AdvanceLedgerUpdates = append(result.AdvanceLedgerUpdates, ledgerUpdate(line))
	}

	// One-shot categories
	totals := Aggregate(deductions, absences, rewards, window)

	raw := emp.BaseSalary.Sub(totalAdvance).Sub(totals.Deductions()).Add(totals.Rewards)

	result.TotalAdvanceDue = totalAdvance
	result.TotalManualDeductions = totals.ManualDeductions
	result.TotalAbsenceDeductions = totals.AbsenceDeductions
	result.TotalDeductions = totals.Deductions()
	result.TotalRewards = totals.Rewards
	result.NetSalary = raw.FloorZero()
	result.Shortfall = raw.Neg().FloorZero()

	return result, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

type checkedAdvance struct {
	AdvanceRequest
	period int
}

func (c *Calculator) checkAdvances(empID generic.EmployeeID, advances []AdvanceRequest) ([]checkedAdvance, []DataIntegrityWarning, error) {
	var (
		out      []checkedAdvance
		warnings []DataIntegrityWarning
	)

	for _, a := range advances {
		if a.EmployeeID != "" && a.EmployeeID != empID {
			warnings = append(warnings, foreignRecord(empID, string(a.ID), a.EmployeeID))
			continue
		}
		if a.Amount.IsNegative() {
			return nil, nil, &ValidationError{EmployeeID: empID, RecordID: string(a.ID), Field: "amount",
				Reason: fmt.Sprintf("must not be negative, got %s", a.Amount)}
		}
		if a.PaidAmount.IsNegative() {
			return nil, nil, &ValidationError{EmployeeID: empID, RecordID: string(a.ID), Field: "paid_amount",
				Reason: fmt.Sprintf("must not be negative, got %s", a.PaidAmount)}
		}
		if a.PaidAmount.GreaterThan(a.Amount) {
			return nil, nil, &ValidationError{EmployeeID: empID, RecordID: string(a.ID), Field: "paid_amount",
				Reason: fmt.Sprintf("paid %s exceeds principal %s", a.PaidAmount, a.Amount)}
		}

		if !a.Status.Repaying() {
			continue
		}

		period := a.RepaymentPeriod
		if period <= 0 {
			if c.StrictRepaymentPeriod {
				return nil, nil, &ValidationError{EmployeeID: empID, RecordID: string(a.ID), Field: "repayment_period",
					Reason: fmt.Sprintf("must be positive, got %d", a.RepaymentPeriod)}
			}
			warnings = append(warnings, DataIntegrityWarning{
				EmployeeID: empID,
				RecordID:   string(a.ID),
				Field:      "repayment_period",
				Message:    fmt.Sprintf("non-positive repayment period %d treated as 1", a.RepaymentPeriod),
			})
			period = 1
		}

		if !a.RepaymentFrequency.Valid() {
			warnings = append(warnings, DataIntegrityWarning{
				EmployeeID: empID,
				RecordID:   string(a.ID),
				Field:      "repayment_frequency",
				Message:    fmt.Sprintf("unknown frequency %q treated as monthly", a.RepaymentFrequency),
			})
			a.RepaymentFrequency = generic.FrequencyMonthly
		}

		out = append(out, checkedAdvance{AdvanceRequest: a, period: period})
	}
	return out, warnings, nil
}

func checkEntries(empID generic.EmployeeID, deductions []Deduction, absences []Absence, rewards []Reward) ([]Deduction, []Absence, []Reward, []DataIntegrityWarning, error) {
	var (
		ds       []Deduction
		as       []Absence
		rs       []Reward
		warnings []DataIntegrityWarning
	)

	for _, d := range deductions {
		if d.EmployeeID != "" && d.EmployeeID != empID {
			warnings = append(warnings, foreignRecord(empID, d.ID, d.EmployeeID))
			continue
		}
		if d.Amount.IsNegative() {
			return nil, nil, nil, nil, &ValidationError{EmployeeID: empID, RecordID: d.ID, Field: "deduction.amount",
				Reason: fmt.Sprintf("must not be negative, got %s", d.Amount)}
		}
		ds = append(ds, d)
	}

	for _, a := range absences {
		if a.EmployeeID != "" && a.EmployeeID != empID {
			warnings = append(warnings, foreignRecord(empID, a.ID, a.EmployeeID))
			continue
		}
		if a.DeductionAmount.IsNegative() {
			return nil, nil, nil, nil, &ValidationError{EmployeeID: empID, RecordID: a.ID, Field: "absence.deduction_amount",
				Reason: fmt.Sprintf("must not be negative, got %s", a.DeductionAmount)}
		}
		as = append(as, a)
	}

	for _, r := range rewards {
		if r.EmployeeID != "" && r.EmployeeID != empID {
			warnings = append(warnings, foreignRecord(empID, r.ID, r.EmployeeID))
			continue
		}
		if r.Amount.IsNegative() {
			return nil, nil, nil, nil, &ValidationError{EmployeeID: empID, RecordID: r.ID, Field: "reward.amount",
				Reason: fmt.Sprintf("must not be negative, got %s", r.Amount)}
		}
		rs = append(rs, r)
	}

	return ds, as, rs, warnings, nil
}

func foreignRecord(empID generic.EmployeeID, recordID string, owner generic.EmployeeID) DataIntegrityWarning {
	return DataIntegrityWarning{
		EmployeeID: empID,
		RecordID:   recordID,
		Field:      "employee_id",
		Message:    fmt.Sprintf("record belongs to employee %s, skipped", owner),
	}
}
