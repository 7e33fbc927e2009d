/*
Package generic provides the money and calendar primitives shared by the
payroll engine.

PURPOSE:
  This package contains domain-agnostic types used by every other package:
  exact decimal amounts, day-granular time points, settlement windows and
  repayment frequencies. It knows nothing about employees or advances.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary quantity backed by decimal.Decimal
  - Identifiers: Type-safe IDs for employees, advances and payments

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Type Safety: Strong typing for IDs prevents mixing employee/advance IDs
  3. Immutability: Amount methods return new values, never mutate

USAGE:
  salary := generic.NewAmountFromInt(2000)
  net := salary.Sub(generic.NewAmountFromInt(600)).FloorZero()

SEE ALSO:
  - time.go: TimePoint and calendar arithmetic
  - period.go: Window and Frequency
  - errors.go: Sentinel errors
*/
package generic

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary quantity (single currency)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

var ZeroAmount = Amount{Value: decimal.Zero}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func NewAmountFromInt(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

// ParseAmount parses a decimal string such as "1200.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

// MustParseAmount panics on malformed input. Use it for literals; stored
// values go through ParseAmount.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) MulInt(n int) Amount          { return Amount{Value: a.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (a Amount) DivInt(n int) Amount          { return Amount{Value: a.Value.Div(decimal.NewFromInt(int64(n)))} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) GreaterOrEqual(b Amount) bool { return a.Value.GreaterThanOrEqual(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func (a Amount) FloorZero() Amount { return a.Max(ZeroAmount) }

func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// String returns the exact decimal representation.
func (a Amount) String() string { return a.Value.String() }

// Display rounds to two places for messages and reports.
func (a Amount) Display() string { return a.Value.StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.Value)
}

// Sum adds up a list of amounts.
func Sum(amounts ...Amount) Amount {
	total := ZeroAmount
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type AdvanceID string
type PaymentID string
