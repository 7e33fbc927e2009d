/*
store.go - Persistence contract for payroll records

PURPOSE:
  Defines the interface between the settlement workflow and the database.
  The calculator itself never touches a Store; the settlement service reads
  snapshots through it and applies accepted results back.

KEY INTERFACES:
  Reader:     Snapshot reads for one employee (inputs to the calculator)
  Writer:     Applying an accepted settlement atomically
  Repository: Everything above plus record creation and the advance workflow

OPTIMISTIC CONCURRENCY:
  A settlement is only correct for the paid amounts it observed. ApplySettlement
  therefore compares-and-swaps:
  - each advance's paid_amount against LedgerUpdate.PaidAmountBefore
  - the employee's last payment date against the one the window started from
  On mismatch nothing is written and ErrConcurrentModification is returned.
  Callers must re-fetch and re-run, never retry the write blindly.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - payroll/store/memory.go: In-memory for testing

SEE ALSO:
  - settlement/service.go: The only writer of advance paid amounts
*/
package payroll

import (
	"context"

	"github.com/warp/payroll-engine/generic"
)

// Reader loads the settlement inputs for one employee.
type Reader interface {
	GetEmployee(ctx context.Context, id generic.EmployeeID) (*Employee, error)
	ListAdvances(ctx context.Context, employeeID generic.EmployeeID) ([]AdvanceRequest, error)
	ListDeductions(ctx context.Context, employeeID generic.EmployeeID) ([]Deduction, error)
	ListAbsences(ctx context.Context, employeeID generic.EmployeeID) ([]Absence, error)
	ListRewards(ctx context.Context, employeeID generic.EmployeeID) ([]Reward, error)

	// LastPayment returns the most recent payment, or nil if never paid.
	LastPayment(ctx context.Context, employeeID generic.EmployeeID) (*Payment, error)
}

// Writer applies an accepted settlement.
type Writer interface {
	// ApplySettlement records payment and applies updates in one atomic unit.
	// expectedLast is the last payment date the settlement window started
	// from (nil = never paid).
	ApplySettlement(ctx context.Context, payment Payment, updates []LedgerUpdate, expectedLast *generic.TimePoint) error
}

// Repository is the full store used by the API.
type Repository interface {
	Reader
	Writer

	SaveEmployee(ctx context.Context, emp Employee) error
	ListEmployees(ctx context.Context) ([]Employee, error)

	CreateAdvance(ctx context.Context, adv AdvanceRequest) error
	GetAdvance(ctx context.Context, id generic.AdvanceID) (*AdvanceRequest, error)

	// DecideAdvance moves a pending advance to approved or rejected.
	// Any other current status yields ErrInvalidTransition.
	DecideAdvance(ctx context.Context, id generic.AdvanceID, status AdvanceStatus, by string, on generic.TimePoint) error

	CreateDeduction(ctx context.Context, d Deduction) error
	CreateAbsence(ctx context.Context, a Absence) error
	CreateReward(ctx context.Context, r Reward) error

	ListPayments(ctx context.Context, employeeID generic.EmployeeID) ([]Payment, error)
}
