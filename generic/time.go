package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar day (payroll records are keyed by date)
// =============================================================================

const DateLayout = "2006-01-02"

// TimePoint is a calendar day in UTC. Anything finer than a day is dropped
// when comparing, so a record stamped 23:59 and one stamped 00:01 on the
// same date are equal.
type TimePoint struct {
	Time time.Time
}

// Epoch is the lower bound used when an employee has never been paid.
var Epoch = NewTimePoint(1970, time.January, 1)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) TimePoint {
	u := t.UTC()
	return NewTimePoint(u.Year(), u.Month(), u.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(s string) (TimePoint, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	u := tp.Time.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Year() int         { return tp.normalize().Year() }
func (tp TimePoint) Month() time.Month { return tp.normalize().Month() }
func (tp TimePoint) Day() int          { return tp.normalize().Day() }
func (tp TimePoint) IsZero() bool      { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	return tp.normalize().Format(DateLayout)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// MonthsBetween is the calendar-month difference, ignoring the day of month:
// Jan 31 -> Feb 1 is one month.
func MonthsBetween(from, to TimePoint) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// WeeksBetween counts whole 7-day spans from `from` to `to`. Negative spans
// round toward negative infinity.
func WeeksBetween(from, to TimePoint) int {
	days := DaysBetween(from, to)
	if days < 0 {
		return -((-days + 6) / 7)
	}
	return days / 7
}

// MonthLabel is the YYYY-MM label used for payment periods.
func (tp TimePoint) MonthLabel() string {
	return tp.normalize().Format("2006-01")
}
