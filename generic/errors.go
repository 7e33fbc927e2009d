/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  Sentinel errors shared by the calculator, the stores and the API.
  Domain packages wrap these with context (employee, field, advance).

ERROR CATEGORIES:
  1. Validation errors - Malformed or contradictory input
  2. Store errors - Missing rows, optimistic-concurrency conflicts
  3. Workflow errors - Illegal status transitions

USAGE:
  if errors.Is(err, generic.ErrConcurrentModification) {
      // re-fetch inputs and re-run the calculator
  }

SEE ALSO:
  - payroll/errors.go: ValidationError and DataIntegrityWarning
  - settlement/service.go: Retry on concurrent modification
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every input validation failure.
	// A result computed from invalid input must never be persisted.
	ErrValidation = errors.New("validation failed")

	// ErrConcurrentModification is returned when a compare-and-swap on an
	// advance's paid amount, or on the employee's last payment, fails.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAdvanceNotFound is returned when a referenced advance doesn't exist.
	ErrAdvanceNotFound = errors.New("advance not found")

	// ErrInvalidTransition is returned for a status change the workflow forbids
	// (e.g. approving an advance that was already rejected).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadySettled is returned when the employee was already paid on or
	// after the evaluation date, leaving an empty window.
	ErrAlreadySettled = errors.New("already settled for this window")

	// ErrInvalidWindow is returned when the evaluation date precedes the last payment.
	ErrInvalidWindow = errors.New("invalid window: end before start")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if re-fetching and re-running might succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAlreadySettled) ||
		errors.Is(err, ErrInvalidWindow)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAdvanceNotFound)
}
