package generic

import "fmt"

// =============================================================================
// WINDOW - The span a settlement covers
// =============================================================================

// Window is the half-open interval (Start, End]. Start is the last completed
// payment date, so anything dated on it was already settled.
type Window struct {
	Start TimePoint
	End   TimePoint
}

// WindowSince builds the window from the last payment date (nil = never paid).
func WindowSince(lastPayment *TimePoint, end TimePoint) Window {
	start := Epoch
	if lastPayment != nil {
		start = *lastPayment
	}
	return Window{Start: start, End: end}
}

// Contains returns true if t is in (Start, End].
func (w Window) Contains(t TimePoint) bool {
	return t.After(w.Start) && t.BeforeOrEqual(w.End)
}

// IsEmpty is true when End is not after Start.
func (w Window) IsEmpty() bool {
	return !w.End.After(w.Start)
}

func (w Window) Validate() error {
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidWindow, w)
	}
	return nil
}

func (w Window) String() string {
	return "(" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// FREQUENCY - Closed set of repayment / pay cadences
// =============================================================================

type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyWeekly, FrequencyMonthly:
		return Frequency(s), nil
	case "":
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly
}

// PeriodsStarted returns how many periods have begun between anchor and at,
// counting the period that starts on anchor itself. Nothing has started
// before the anchor.
//
//	monthly: calendar-month difference + 1
//	weekly:  whole 7-day spans + 1
func (f Frequency) PeriodsStarted(anchor, at TimePoint) int {
	if at.Before(anchor) {
		return 0
	}
	switch f {
	case FrequencyWeekly:
		return WeeksBetween(anchor, at) + 1
	default:
		return MonthsBetween(anchor, at) + 1
	}
}

// Next returns the date one period after from.
func (f Frequency) Next(from TimePoint) TimePoint {
	switch f {
	case FrequencyWeekly:
		return from.AddDays(7)
	default:
		return from.AddMonths(1)
	}
}
