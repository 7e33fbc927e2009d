package payroll

import (
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// ONE-SHOT AGGREGATION
// =============================================================================

// Totals are the window sums of the one-shot categories. They are consumed
// in full in the window their date falls in, never amortized.
type Totals struct {
	ManualDeductions  generic.Amount
	AbsenceDeductions generic.Amount
	Rewards           generic.Amount
}

// Deductions is manual + absence, the figure used by the net formula.
func (t Totals) Deductions() generic.Amount {
	return t.ManualDeductions.Add(t.AbsenceDeductions)
}

func sumDeductions(entries []Deduction, window generic.Window) generic.Amount {
	total := generic.ZeroAmount
	for _, d := range entries {
		if window.Contains(d.Date) {
			total = total.Add(d.Amount)
		}
	}
	return total
}

func sumAbsences(entries []Absence, window generic.Window) generic.Amount {
	total := generic.ZeroAmount
	for _, a := range entries {
		if window.Contains(a.Date) {
			total = total.Add(a.DeductionAmount)
		}
	}
	return total
}

func sumRewards(entries []Reward, window generic.Window) generic.Amount {
	total := generic.ZeroAmount
	for _, r := range entries {
		if window.Contains(r.Date) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// Aggregate sums deductions, absences and rewards dated in (Start, End].
func Aggregate(deductions []Deduction, absences []Absence, rewards []Reward, window generic.Window) Totals {
	return Totals{
		ManualDeductions:  sumDeductions(deductions, window),
		AbsenceDeductions: sumAbsences(absences, window),
		Rewards:           sumRewards(rewards, window),
	}
}
