package payroll

import (
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// ADVANCE AMORTIZATION
// =============================================================================

// AdvanceLine is how much of one advance falls due in the settlement window.
type AdvanceLine struct {
	AdvanceID         generic.AdvanceID
	TotalAmount       generic.Amount
	PaidAmountBefore  generic.Amount
	InstallmentAmount generic.Amount
	DuePeriods        int
	DueAmount         generic.Amount
}

// LedgerUpdate is the mutation the caller applies to an advance once the
// settlement is accepted. PaidAmountBefore is the value the calculator saw;
// stores compare-and-swap on it.
type LedgerUpdate struct {
	AdvanceID        generic.AdvanceID
	PaidAmountBefore generic.Amount
	NewPaidAmount    generic.Amount
	NewStatus        AdvanceStatus
}

// residueTolerance is one currency sub-unit.
var residueTolerance = generic.MustParseAmount("0.01")

// periodsElapsed counts installments whose period has started by `at`,
// capped at the repayment period.
func periodsElapsed(adv AdvanceRequest, period int, at generic.TimePoint) int {
	n := adv.RepaymentFrequency.PeriodsStarted(adv.RequestDate, at)
	if n > period {
		return period
	}
	return n
}

// amortize returns the due line for one advance, or ok=false when nothing is
// due. The advance must already be validated and repaying; period is the
// effective repayment period (never <= 0).
//
// Installment due dates are compared against the window, not the request
// date: an advance requested long ago still has installments falling into
// later windows.
func amortize(adv AdvanceRequest, period int, window generic.Window) (AdvanceLine, bool) {
	if !adv.Status.Repaying() || adv.IsSettled() {
		return AdvanceLine{}, false
	}

	installment := adv.Amount.DivInt(period)
	elapsedEnd := periodsElapsed(adv, period, window.End)
	elapsedStart := periodsElapsed(adv, period, window.Start)

	duePeriods := elapsedEnd - elapsedStart
	if duePeriods < 0 {
		duePeriods = 0
	}

	remaining := adv.Remaining()
	due := installment.MulInt(duePeriods).Min(remaining)

	// The last installment retires the decimal remainder of amount/period.
	// A balance that is whole installments behind is not pulled forward.
	if duePeriods > 0 && elapsedEnd == period {
		residue := remaining.Sub(installment.MulInt(duePeriods))
		if residue.IsPositive() && residue.LessThan(residueTolerance) {
			due = remaining
		}
	}

	if !due.IsPositive() {
		return AdvanceLine{}, false
	}

	return AdvanceLine{
		AdvanceID:         adv.ID,
		TotalAmount:       adv.Amount,
		PaidAmountBefore:  adv.PaidAmount,
		InstallmentAmount: installment,
		DuePeriods:        duePeriods,
		DueAmount:         due,
	}, true
}

// ledgerUpdate turns a due line into the paid/status mutation.
func ledgerUpdate(line AdvanceLine) LedgerUpdate {
	newPaid := line.PaidAmountBefore.Add(line.DueAmount).Min(line.TotalAmount)
	status := AdvancePartiallyPaid
	if newPaid.GreaterOrEqual(line.TotalAmount) {
		status = AdvancePaid
	}
	return LedgerUpdate{
		AdvanceID:        line.AdvanceID,
		PaidAmountBefore: line.PaidAmountBefore,
		NewPaidAmount:    newPaid,
		NewStatus:        status,
	}
}
