package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newFileStore opens a store on a temp file plus a second raw handle on the
// same file, for writing rows the store itself would never produce.
func newFileStore(t *testing.T) (*sqlite.Store, *sql.DB) {
	path := filepath.Join(t.TempDir(), "payroll.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return store, raw
}

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func seed(t *testing.T, store *sqlite.Store) payroll.AdvanceRequest {
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, payroll.Employee{
		ID:           "emp-1",
		Name:         "Sara",
		Phone:        "07701234567",
		BaseSalary:   generic.MustParseAmount("2000.50"),
		PayFrequency: generic.FrequencyMonthly,
		HireDate:     date(2023, time.January, 15),
	}))

	adv := payroll.AdvanceRequest{
		ID:                 "adv-1",
		EmployeeID:         "emp-1",
		Amount:             generic.NewAmountFromInt(1200),
		Status:             payroll.AdvancePending,
		RequestDate:        date(2024, time.March, 10),
		RepaymentPeriod:    12,
		RepaymentFrequency: generic.FrequencyMonthly,
		PaidAmount:         generic.ZeroAmount,
		Reason:             "Rent",
	}
	require.NoError(t, store.CreateAdvance(ctx, adv))
	return adv
}

func payment(id string, on generic.TimePoint) payroll.Payment {
	return payroll.Payment{
		ID:           generic.PaymentID(id),
		EmployeeID:   "emp-1",
		EmployeeName: "Sara",
		BaseSalary:   generic.NewAmountFromInt(2000),
		Advances:     generic.NewAmountFromInt(100),
		Deductions:   generic.ZeroAmount,
		Rewards:      generic.ZeroAmount,
		NetSalary:    generic.NewAmountFromInt(1900),
		PaymentDate:  on,
		Period:       on.MonthLabel(),
		PayFrequency: generic.FrequencyMonthly,
		PaidBy:       "admin",
	}
}

// =============================================================================
// EMPLOYEES AND RECORDS
// =============================================================================

func TestEmployee_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	emp, err := store.GetEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Sara", emp.Name)
	assert.Equal(t, "2000.5", emp.BaseSalary.String())
	assert.Equal(t, generic.FrequencyMonthly, emp.PayFrequency)
	assert.True(t, emp.HireDate.Equal(date(2023, time.January, 15)))

	_, err = store.GetEmployee(context.Background(), "missing")
	assert.True(t, errors.Is(err, generic.ErrEmployeeNotFound))
}

func TestEntries_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()

	require.NoError(t, store.CreateDeduction(ctx, payroll.Deduction{
		ID: "d-1", EmployeeID: "emp-1", Amount: generic.MustParseAmount("12.75"),
		Date: date(2024, time.May, 2), Type: payroll.DeductionLate,
	}))
	require.NoError(t, store.CreateAbsence(ctx, payroll.Absence{
		ID: "a-1", EmployeeID: "emp-1", DeductionAmount: generic.ZeroAmount, Date: date(2024, time.May, 3),
	}))
	require.NoError(t, store.CreateReward(ctx, payroll.Reward{
		ID: "r-1", EmployeeID: "emp-1", Amount: generic.NewAmountFromInt(40), Date: date(2024, time.May, 4),
	}))

	deductions, err := store.ListDeductions(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, deductions, 1)
	assert.Equal(t, "12.75", deductions[0].Amount.String())
	assert.Equal(t, payroll.DeductionLate, deductions[0].Type)

	absences, err := store.ListAbsences(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, absences, 1)
	assert.True(t, absences[0].DeductionAmount.IsZero())

	rewards, err := store.ListRewards(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.True(t, rewards[0].Date.Equal(date(2024, time.May, 4)))
}

// =============================================================================
// ADVANCE WORKFLOW
// =============================================================================

func TestDecideAdvance(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()

	// GIVEN: A pending advance
	// WHEN: It is approved
	require.NoError(t, store.DecideAdvance(ctx, "adv-1", payroll.AdvanceApproved, "manager", date(2024, time.March, 11)))

	// THEN: Status, approver and date are stored
	adv, err := store.GetAdvance(ctx, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, payroll.AdvanceApproved, adv.Status)
	assert.Equal(t, "manager", adv.ApprovedBy)
	require.NotNil(t, adv.ApprovedDate)
	assert.True(t, adv.ApprovedDate.Equal(date(2024, time.March, 11)))

	// AND: It cannot be decided again
	err = store.DecideAdvance(ctx, "adv-1", payroll.AdvanceRejected, "manager", date(2024, time.March, 12))
	assert.True(t, errors.Is(err, generic.ErrInvalidTransition))

	err = store.DecideAdvance(ctx, "nope", payroll.AdvanceApproved, "manager", date(2024, time.March, 12))
	assert.True(t, errors.Is(err, generic.ErrAdvanceNotFound))

	err = store.DecideAdvance(ctx, "adv-1", payroll.AdvancePaid, "manager", date(2024, time.March, 12))
	assert.True(t, errors.Is(err, generic.ErrInvalidTransition))
}

// =============================================================================
// APPLY SETTLEMENT
// =============================================================================

func TestApplySettlement_Success(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()
	require.NoError(t, store.DecideAdvance(ctx, "adv-1", payroll.AdvanceApproved, "manager", date(2024, time.March, 10)))

	updates := []payroll.LedgerUpdate{{
		AdvanceID:        "adv-1",
		PaidAmountBefore: generic.ZeroAmount,
		NewPaidAmount:    generic.NewAmountFromInt(100),
		NewStatus:        payroll.AdvancePartiallyPaid,
	}}
	require.NoError(t, store.ApplySettlement(ctx, payment("pay-1", date(2024, time.March, 31)), updates, nil))

	adv, err := store.GetAdvance(ctx, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, "100", adv.PaidAmount.String())
	assert.Equal(t, payroll.AdvancePartiallyPaid, adv.Status)

	last, err := store.LastPayment(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, generic.PaymentID("pay-1"), last.ID)
	assert.Equal(t, "1900", last.NetSalary.String())
	assert.Equal(t, "admin", last.PaidBy)
}

func TestApplySettlement_StalePaidAmountConflicts(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()
	require.NoError(t, store.DecideAdvance(ctx, "adv-1", payroll.AdvanceApproved, "manager", date(2024, time.March, 10)))

	// GIVEN: A settlement computed against paid_amount 50, but the row holds 0
	updates := []payroll.LedgerUpdate{{
		AdvanceID:        "adv-1",
		PaidAmountBefore: generic.NewAmountFromInt(50),
		NewPaidAmount:    generic.NewAmountFromInt(150),
		NewStatus:        payroll.AdvancePartiallyPaid,
	}}

	// WHEN: Applying it
	err := store.ApplySettlement(ctx, payment("pay-1", date(2024, time.March, 31)), updates, nil)

	// THEN: Conflict, and neither the advance nor the payment was written
	assert.True(t, errors.Is(err, generic.ErrConcurrentModification))

	adv, err := store.GetAdvance(ctx, "adv-1")
	require.NoError(t, err)
	assert.True(t, adv.PaidAmount.IsZero())

	last, err := store.LastPayment(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestApplySettlement_LastPaymentMovedConflicts(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()

	// GIVEN: Another settlement already landed
	require.NoError(t, store.ApplySettlement(ctx, payment("pay-1", date(2024, time.March, 31)), nil, nil))

	// WHEN: A settlement computed as "never paid" is applied
	err := store.ApplySettlement(ctx, payment("pay-2", date(2024, time.April, 30)), nil, nil)

	// THEN: It conflicts
	assert.True(t, errors.Is(err, generic.ErrConcurrentModification))

	// AND: With the right expected date it succeeds
	expected := date(2024, time.March, 31)
	require.NoError(t, store.ApplySettlement(ctx, payment("pay-2", date(2024, time.April, 30)), nil, &expected))

	payments, err := store.ListPayments(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, generic.PaymentID("pay-2"), payments[0].ID)
}

func TestApplySettlement_ComparesPaidAmountAsDecimal(t *testing.T) {
	store, raw := newFileStore(t)
	seed(t, store)
	ctx := context.Background()
	require.NoError(t, store.DecideAdvance(ctx, "adv-1", payroll.AdvanceApproved, "manager", date(2024, time.March, 10)))

	// GIVEN: paid_amount was rewritten by hand in a non-canonical form
	_, err := raw.Exec("UPDATE advances SET paid_amount = '100.00' WHERE id = 'adv-1'")
	require.NoError(t, err)

	// WHEN: A settlement computed against paid 100 is applied
	err = store.ApplySettlement(ctx, payment("pay-1", date(2024, time.May, 31)), []payroll.LedgerUpdate{{
		AdvanceID:        "adv-1",
		PaidAmountBefore: generic.NewAmountFromInt(100),
		NewPaidAmount:    generic.NewAmountFromInt(200),
		NewStatus:        payroll.AdvancePartiallyPaid,
	}}, nil)

	// THEN: Same balance, no conflict
	require.NoError(t, err)
	adv, err := store.GetAdvance(ctx, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, "200", adv.PaidAmount.String())
}

func TestScan_MalformedAmountReturnsError(t *testing.T) {
	store, raw := newFileStore(t)
	seed(t, store)
	ctx := context.Background()
	require.NoError(t, store.ApplySettlement(ctx, payment("pay-1", date(2024, time.March, 31)), nil, nil))

	// GIVEN: Corrupted amount columns
	_, err := raw.Exec("UPDATE advances SET paid_amount = 'n/a' WHERE id = 'adv-1'")
	require.NoError(t, err)
	_, err = raw.Exec("UPDATE salary_payments SET net_salary = '' WHERE id = 'pay-1'")
	require.NoError(t, err)

	// WHEN/THEN: Reads fail with an error naming the row and column
	_, err = store.GetAdvance(ctx, "adv-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adv-1")
	assert.Contains(t, err.Error(), "paid_amount")

	_, err = store.ListPayments(ctx, "emp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "net_salary")
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func TestNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveNotification(ctx, notify.Notification{
		ID:         "n-1",
		UserID:     "emp-1",
		Title:      "Salary due",
		Message:    "Salary for Sara is due",
		Type:       notify.TypeInfo,
		Date:       time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC),
		ActionType: notify.ActionPayday,
		ActionID:   "payday:emp-1:2024-05-15",
	}))

	has, err := store.HasNotification(ctx, "emp-1", notify.ActionPayday, "payday:emp-1:2024-05-15")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = store.HasNotification(ctx, "emp-1", notify.ActionPayday, "payday:emp-1:2024-06-15")
	require.NoError(t, err)
	assert.False(t, has)

	items, err := store.ListNotifications(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notify.ActionPayday, items[0].ActionType)
	assert.False(t, items[0].Read)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	ctx := context.Background()

	require.NoError(t, store.Reset(ctx))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}
