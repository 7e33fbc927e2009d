package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

func TestNextPayDate(t *testing.T) {
	monthly := payroll.Employee{PayFrequency: generic.FrequencyMonthly, HireDate: date(2023, time.March, 15)}
	weekly := payroll.Employee{PayFrequency: generic.FrequencyWeekly, HireDate: date(2024, time.May, 6)}

	tests := []struct {
		name  string
		emp   payroll.Employee
		last  *generic.TimePoint
		today generic.TimePoint
		want  generic.TimePoint
	}{
		{"monthly before hire day", monthly, nil, date(2024, time.May, 10), date(2024, time.May, 15)},
		{"monthly on hire day", monthly, nil, date(2024, time.May, 15), date(2024, time.May, 15)},
		{"monthly after hire day", monthly, nil, date(2024, time.May, 16), date(2024, time.June, 15)},
		{"monthly after payment", monthly, datePtr(date(2024, time.May, 15)), date(2024, time.May, 20), date(2024, time.June, 15)},
		{"weekly never paid", weekly, nil, date(2024, time.May, 8), date(2024, time.May, 13)},
		{"weekly after payment", weekly, datePtr(date(2024, time.May, 13)), date(2024, time.May, 14), date(2024, time.May, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.NextPayDate(tt.emp, tt.last, tt.today)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestIsPayDue(t *testing.T) {
	emp := payroll.Employee{PayFrequency: generic.FrequencyMonthly, HireDate: date(2023, time.March, 15)}
	last := datePtr(date(2024, time.April, 15))

	assert.False(t, payroll.IsPayDue(emp, last, date(2024, time.May, 14)))
	assert.True(t, payroll.IsPayDue(emp, last, date(2024, time.May, 15)))
	assert.True(t, payroll.IsPayDue(emp, last, date(2024, time.May, 30)))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "2024-05", payroll.PeriodLabel(generic.FrequencyMonthly, date(2024, time.May, 31)))
	assert.Equal(t, "2024-W22", payroll.PeriodLabel(generic.FrequencyWeekly, date(2024, time.May, 31)))
	// ISO week-numbering year differs from the calendar year here.
	assert.Equal(t, "2025-W01", payroll.PeriodLabel(generic.FrequencyWeekly, date(2024, time.December, 30)))
}
