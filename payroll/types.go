/*
Package payroll implements the net-salary settlement calculator.

PURPOSE:
  Given one employee's base pay, their cash advances (each with its own
  installment schedule), ad-hoc deductions, absence penalties and rewards,
  compute what is owed for the current, not-yet-settled pay window and how
  much of each advance is retired in this cycle.

  The calculator is a pure function of its inputs. It performs no I/O and
  holds no state; the caller persists the advance ledger updates it returns,
  and those persisted paid amounts become the input to the next settlement.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: base salary, pay frequency, hire date
  - AdvanceRequest: principal, status, repayment schedule, cumulative paid
  - Deduction / Absence / Reward: one-shot dated entries
  - Payment: the record of a completed settlement

SEE ALSO:
  - amortization.go: Per-advance due amount
  - aggregation.go: One-shot category sums
  - settlement.go: Assembly and ComputeSettlement
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID           generic.EmployeeID
	Name         string
	Email        string
	Phone        string
	BranchID     string
	Position     string
	BaseSalary   generic.Amount
	PayFrequency generic.Frequency
	HireDate     generic.TimePoint
	CreatedAt    time.Time
}

// =============================================================================
// ADVANCE REQUEST
// =============================================================================

type AdvanceStatus string

const (
	AdvancePending       AdvanceStatus = "pending"
	AdvanceApproved      AdvanceStatus = "approved"
	AdvanceRejected      AdvanceStatus = "rejected"
	AdvancePartiallyPaid AdvanceStatus = "partially_paid"
	AdvancePaid          AdvanceStatus = "paid"
)

func ParseAdvanceStatus(s string) (AdvanceStatus, error) {
	switch st := AdvanceStatus(s); st {
	case AdvancePending, AdvanceApproved, AdvanceRejected, AdvancePartiallyPaid, AdvancePaid:
		return st, nil
	default:
		return "", fmt.Errorf("unknown advance status %q", s)
	}
}

// Repaying reports whether advances in this status take part in settlement.
func (s AdvanceStatus) Repaying() bool {
	return s == AdvanceApproved || s == AdvancePartiallyPaid
}

// AdvanceRequest is a cash advance repaid from salary in equal installments.
// Only PaidAmount and Status change after approval, and only through an
// accepted settlement.
type AdvanceRequest struct {
	ID                 generic.AdvanceID
	EmployeeID         generic.EmployeeID
	Amount             generic.Amount
	Status             AdvanceStatus
	RequestDate        generic.TimePoint
	RepaymentPeriod    int
	RepaymentFrequency generic.Frequency
	PaidAmount         generic.Amount
	Reason             string
	ApprovedBy         string
	ApprovedDate       *generic.TimePoint
	Notes              string
	CreatedAt          time.Time
}

// Remaining is the principal not yet retired.
func (a AdvanceRequest) Remaining() generic.Amount {
	return a.Amount.Sub(a.PaidAmount).FloorZero()
}

func (a AdvanceRequest) IsSettled() bool {
	return a.PaidAmount.GreaterOrEqual(a.Amount)
}

// =============================================================================
// ONE-SHOT ENTRIES
// =============================================================================

type DeductionType string

const (
	DeductionAbsence DeductionType = "absence"
	DeductionLate    DeductionType = "late"
	DeductionPenalty DeductionType = "penalty"
	DeductionOther   DeductionType = "other"
)

// Deduction is consumed in full by the settlement whose window contains Date.
type Deduction struct {
	ID         string
	EmployeeID generic.EmployeeID
	Amount     generic.Amount
	Date       generic.TimePoint
	Type       DeductionType
	Reason     string
	CreatedBy  string
}

// Absence carries its own penalty; zero is allowed.
type Absence struct {
	ID              string
	EmployeeID      generic.EmployeeID
	Date            generic.TimePoint
	DeductionAmount generic.Amount
	Reason          string
	CreatedBy       string
}

type Reward struct {
	ID         string
	EmployeeID generic.EmployeeID
	Amount     generic.Amount
	Date       generic.TimePoint
	Reason     string
	Notes      string
	CreatedBy  string
}

// =============================================================================
// PAYMENT - A persisted settlement
// =============================================================================

type Payment struct {
	ID           generic.PaymentID
	EmployeeID   generic.EmployeeID
	EmployeeName string
	BranchID     string
	BaseSalary   generic.Amount
	Advances     generic.Amount
	Deductions   generic.Amount
	Rewards      generic.Amount
	NetSalary    generic.Amount
	PaymentDate  generic.TimePoint
	Period       string
	PayFrequency generic.Frequency
	PaidBy       string
	Notes        string
	CreatedAt    time.Time
}
