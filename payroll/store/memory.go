// Package store provides in-memory payroll.Repository and notify.Store
// implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	employees     map[generic.EmployeeID]payroll.Employee
	advances      map[generic.AdvanceID]payroll.AdvanceRequest
	deductions    map[generic.EmployeeID][]payroll.Deduction
	absences      map[generic.EmployeeID][]payroll.Absence
	rewards       map[generic.EmployeeID][]payroll.Reward
	payments      map[generic.EmployeeID][]payroll.Payment
	notifications map[string][]notify.Notification
}

func NewMemory() *Memory {
	return &Memory{
		employees:     make(map[generic.EmployeeID]payroll.Employee),
		advances:      make(map[generic.AdvanceID]payroll.AdvanceRequest),
		deductions:    make(map[generic.EmployeeID][]payroll.Deduction),
		absences:      make(map[generic.EmployeeID][]payroll.Absence),
		rewards:       make(map[generic.EmployeeID][]payroll.Reward),
		payments:      make(map[generic.EmployeeID][]payroll.Payment),
		notifications: make(map[string][]notify.Notification),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.employees[emp.ID]; ok {
		emp.CreatedAt = existing.CreatedAt
	} else if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id generic.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return nil, generic.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]payroll.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// =============================================================================
// ADVANCES
// =============================================================================

func (m *Memory) CreateAdvance(_ context.Context, adv payroll.AdvanceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if adv.CreatedAt.IsZero() {
		adv.CreatedAt = time.Now().UTC()
	}
	m.advances[adv.ID] = adv
	return nil
}

func (m *Memory) GetAdvance(_ context.Context, id generic.AdvanceID) (*payroll.AdvanceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	adv, ok := m.advances[id]
	if !ok {
		return nil, generic.ErrAdvanceNotFound
	}
	return &adv, nil
}

func (m *Memory) ListAdvances(_ context.Context, employeeID generic.EmployeeID) ([]payroll.AdvanceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []payroll.AdvanceRequest
	for _, a := range m.advances {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestDate.Before(result[j].RequestDate)
	})
	return result, nil
}

func (m *Memory) DecideAdvance(_ context.Context, id generic.AdvanceID, status payroll.AdvanceStatus, by string, on generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	adv, ok := m.advances[id]
	if !ok {
		return generic.ErrAdvanceNotFound
	}
	if adv.Status != payroll.AdvancePending {
		return generic.ErrInvalidTransition
	}
	adv.Status = status
	adv.ApprovedBy = by
	adv.ApprovedDate = &on
	m.advances[id] = adv
	return nil
}

// =============================================================================
// ONE-SHOT ENTRIES
// =============================================================================

func (m *Memory) CreateDeduction(_ context.Context, d payroll.Deduction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deductions[d.EmployeeID] = append(m.deductions[d.EmployeeID], d)
	return nil
}

func (m *Memory) CreateAbsence(_ context.Context, a payroll.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[a.EmployeeID] = append(m.absences[a.EmployeeID], a)
	return nil
}

func (m *Memory) CreateReward(_ context.Context, r payroll.Reward) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rewards[r.EmployeeID] = append(m.rewards[r.EmployeeID], r)
	return nil
}

func (m *Memory) ListDeductions(_ context.Context, employeeID generic.EmployeeID) ([]payroll.Deduction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]payroll.Deduction(nil), m.deductions[employeeID]...), nil
}

func (m *Memory) ListAbsences(_ context.Context, employeeID generic.EmployeeID) ([]payroll.Absence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]payroll.Absence(nil), m.absences[employeeID]...), nil
}

func (m *Memory) ListRewards(_ context.Context, employeeID generic.EmployeeID) ([]payroll.Reward, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]payroll.Reward(nil), m.rewards[employeeID]...), nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (m *Memory) LastPayment(_ context.Context, employeeID generic.EmployeeID) (*payroll.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastPaymentLocked(employeeID), nil
}

func (m *Memory) lastPaymentLocked(employeeID generic.EmployeeID) *payroll.Payment {
	payments := m.payments[employeeID]
	if len(payments) == 0 {
		return nil
	}
	last := payments[len(payments)-1]
	return &last
}

func (m *Memory) ListPayments(_ context.Context, employeeID generic.EmployeeID) ([]payroll.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := append([]payroll.Payment(nil), m.payments[employeeID]...)
	// newest first
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PaymentDate.After(result[j].PaymentDate)
	})
	return result, nil
}

// ApplySettlement checks every precondition before writing anything, so a
// conflict leaves the store untouched.
func (m *Memory) ApplySettlement(_ context.Context, payment payroll.Payment, updates []payroll.LedgerUpdate, expectedLast *generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := m.lastPaymentLocked(payment.EmployeeID)
	switch {
	case last == nil && expectedLast != nil,
		last != nil && expectedLast == nil,
		last != nil && !last.PaymentDate.Equal(*expectedLast):
		return generic.ErrConcurrentModification
	}

	for _, u := range updates {
		adv, ok := m.advances[u.AdvanceID]
		if !ok {
			return generic.ErrAdvanceNotFound
		}
		if !adv.PaidAmount.Equal(u.PaidAmountBefore) {
			return generic.ErrConcurrentModification
		}
	}

	for _, u := range updates {
		adv := m.advances[u.AdvanceID]
		adv.PaidAmount = u.NewPaidAmount
		adv.Status = u.NewStatus
		m.advances[u.AdvanceID] = adv
	}

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	m.payments[payment.EmployeeID] = append(m.payments[payment.EmployeeID], payment)
	return nil
}

// =============================================================================
// NOTIFICATIONS (notify.Store)
// =============================================================================

func (m *Memory) SaveNotification(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.UserID] = append(m.notifications[n.UserID], n)
	return nil
}

func (m *Memory) HasNotification(_ context.Context, userID string, action notify.ActionType, actionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, n := range m.notifications[userID] {
		if n.ActionType == action && n.ActionID == actionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListNotifications(_ context.Context, userID string) ([]notify.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]notify.Notification(nil), m.notifications[userID]...), nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	fresh := NewMemory()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = fresh.employees
	m.advances = fresh.advances
	m.deductions = fresh.deductions
	m.absences = fresh.absences
	m.rewards = fresh.rewards
	m.payments = fresh.payments
	m.notifications = fresh.notifications
	return nil
}

var (
	_ payroll.Repository = (*Memory)(nil)
	_ notify.Store       = (*Memory)(nil)
)
