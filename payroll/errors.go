package payroll

import (
	"fmt"

	"github.com/warp/payroll-engine/generic"
)

// ValidationError reports malformed or contradictory settlement input.
// It names the employee and field so the operator who triggered the
// settlement can fix the record.
type ValidationError struct {
	EmployeeID generic.EmployeeID
	RecordID   string // advance/deduction/... ID, empty for employee fields
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("employee %s: %s (record %s): %s", e.EmployeeID, e.Field, e.RecordID, e.Reason)
	}
	return fmt.Sprintf("employee %s: %s: %s", e.EmployeeID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return generic.ErrValidation
}

// DataIntegrityWarning is a non-fatal anomaly found while computing. The
// settlement still completes; callers are expected to log these.
type DataIntegrityWarning struct {
	EmployeeID generic.EmployeeID
	RecordID   string
	Field      string
	Message    string
}

func (w DataIntegrityWarning) String() string {
	return fmt.Sprintf("employee %s: %s (record %s): %s", w.EmployeeID, w.Field, w.RecordID, w.Message)
}
