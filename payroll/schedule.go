package payroll

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/generic"
)

// NextPayDate returns when the employee is next due to be paid.
//
// With a previous payment it is one pay period later. Otherwise monthly
// employees are paid on their hire-date day of month (this month if that day
// hasn't passed yet, else next month) and weekly employees a week after hire.
func NextPayDate(emp Employee, lastPayment *generic.TimePoint, today generic.TimePoint) generic.TimePoint {
	if lastPayment != nil {
		return emp.PayFrequency.Next(*lastPayment)
	}

	switch emp.PayFrequency {
	case generic.FrequencyWeekly:
		return emp.HireDate.AddDays(7)
	default:
		day := emp.HireDate.Day()
		month := today.Month()
		if today.Day() > day {
			month++
		}
		// time.Date normalises day/month overflow (Jan 31 + 1 month -> Mar 3).
		return generic.FromTime(time.Date(today.Year(), month, day, 0, 0, 0, 0, time.UTC))
	}
}

// IsPayDue reports whether the next pay date is today or already past.
func IsPayDue(emp Employee, lastPayment *generic.TimePoint, today generic.TimePoint) bool {
	return !NextPayDate(emp, lastPayment, today).After(today)
}

// PeriodLabel is the label stored on a payment for the cycle it closes.
func PeriodLabel(freq generic.Frequency, paymentDate generic.TimePoint) string {
	if freq == generic.FrequencyWeekly {
		year, week := paymentDate.Time.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return paymentDate.MonthLabel()
}
