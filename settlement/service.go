/*
Package settlement runs one pay cycle for one employee end to end.

PURPOSE:
  Wraps the pure payroll calculator with the I/O around it: load the
  employee's snapshot, compute, persist the payment and advance ledger
  updates atomically, then notify the employee.

REQUEST FLOW:
  1. Load the employee, then advances, deductions, absences, rewards and
     last payment concurrently
  2. Compute the settlement (payroll.Calculator)
  3. ApplySettlement with compare-and-swap on every paid amount it read
  4. On ErrConcurrentModification: go back to 1 (never re-write the stale result)
  5. Dispatch the salary-paid notification (best-effort)

A ValidationError stops the flow before anything is written.

SEE ALSO:
  - payroll/settlement.go: The calculator
  - payroll/store.go: Persistence contract
*/
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
)

const DefaultMaxAttempts = 3

// Store is what the service needs from persistence.
type Store interface {
	payroll.Reader
	payroll.Writer
}

// Request identifies one settlement. PaidBy is the acting operator; it is
// recorded on the payment.
type Request struct {
	EmployeeID     generic.EmployeeID
	EvaluationDate generic.TimePoint // zero = today
	PaidBy         string
	Notes          string
}

// Outcome is a persisted settlement.
type Outcome struct {
	Payment  payroll.Payment
	Result   payroll.Result
	Attempts int
}

// Service settles salaries.
type Service struct {
	Store       Store
	Calculator  *payroll.Calculator
	Notifier    notify.Dispatcher
	Logger      logrus.FieldLogger
	MaxAttempts int
	Currency    string

	Today func() generic.TimePoint
	NewID func() string
}

func NewService(store Store, notifier notify.Dispatcher, logger logrus.FieldLogger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Store:       store,
		Calculator:  &payroll.Calculator{},
		Notifier:    notifier,
		Logger:      logger.WithField("module", "settlement"),
		MaxAttempts: DefaultMaxAttempts,
		Today:       generic.Today,
		NewID:       uuid.NewString,
	}
}

// snapshot is one read of the calculator inputs. ApplySettlement rejects it
// if a competing settlement landed after the read.
type snapshot struct {
	employee   payroll.Employee
	advances   []payroll.AdvanceRequest
	deductions []payroll.Deduction
	absences   []payroll.Absence
	rewards    []payroll.Reward
	last       *payroll.Payment
}

func (s *snapshot) lastDate() *generic.TimePoint {
	if s.last == nil {
		return nil
	}
	d := s.last.PaymentDate
	return &d
}

func (s *Service) load(ctx context.Context, id generic.EmployeeID) (*snapshot, error) {
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load employee %s: %w", id, err)
	}
	snap := &snapshot{employee: *emp}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if snap.advances, err = s.Store.ListAdvances(gCtx, id); err != nil {
			return fmt.Errorf("load advances: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.deductions, err = s.Store.ListDeductions(gCtx, id); err != nil {
			return fmt.Errorf("load deductions: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.absences, err = s.Store.ListAbsences(gCtx, id); err != nil {
			return fmt.Errorf("load absences: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.rewards, err = s.Store.ListRewards(gCtx, id); err != nil {
			return fmt.Errorf("load rewards: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.last, err = s.Store.LastPayment(gCtx, id); err != nil {
			return fmt.Errorf("load last payment: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Service) evaluationDate(d generic.TimePoint) generic.TimePoint {
	if d.IsZero() {
		return s.Today()
	}
	return d
}

func (s *Service) compute(snap *snapshot, eval generic.TimePoint) (payroll.Result, error) {
	return s.Calculator.Compute(payroll.Input{
		Employee:        snap.employee,
		Advances:        snap.advances,
		Deductions:      snap.deductions,
		Absences:        snap.absences,
		Rewards:         snap.rewards,
		LastPaymentDate: snap.lastDate(),
		EvaluationDate:  eval,
	})
}

// Preview computes what a settlement would pay without persisting it.
func (s *Service) Preview(ctx context.Context, id generic.EmployeeID, evaluation generic.TimePoint) (payroll.Result, error) {
	snap, err := s.load(ctx, id)
	if err != nil {
		return payroll.Result{}, err
	}
	result, err := s.compute(snap, s.evaluationDate(evaluation))
	if err != nil {
		return payroll.Result{}, err
	}
	s.logWarnings(result)
	return result, nil
}

// Settle computes and persists one settlement, re-reading and re-computing
// when another settlement changed the same rows in between.
func (s *Service) Settle(ctx context.Context, req Request) (*Outcome, error) {
	eval := s.evaluationDate(req.EvaluationDate)
	log := s.Logger.WithFields(logrus.Fields{
		"employee_id": req.EmployeeID,
		"evaluation":  eval.String(),
		"paid_by":     req.PaidBy,
	})

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap, err := s.load(ctx, req.EmployeeID)
		if err != nil {
			return nil, err
		}

		if snap.last != nil && !eval.After(snap.last.PaymentDate) {
			return nil, fmt.Errorf("employee %s last paid %s: %w",
				req.EmployeeID, snap.last.PaymentDate, generic.ErrAlreadySettled)
		}

		result, err := s.compute(snap, eval)
		if err != nil {
			log.WithError(err).Error("settlement rejected")
			return nil, err
		}
		s.logWarnings(result)

		payment := s.newPayment(snap.employee, result, eval, req)
		err = s.Store.ApplySettlement(ctx, payment, result.AdvanceLedgerUpdates, snap.lastDate())
		if errors.Is(err, generic.ErrConcurrentModification) {
			log.WithField("attempt", attempt).Warn("settlement conflicted, re-fetching")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist settlement: %w", err)
		}

		log.WithFields(logrus.Fields{
			"payment_id": payment.ID,
			"net_salary": result.NetSalary.String(),
			"advances":   len(result.AdvanceLedgerUpdates),
		}).Info("salary settled")

		s.notifyPaid(ctx, snap.employee, payment)

		return &Outcome{Payment: payment, Result: result, Attempts: attempt}, nil
	}

	return nil, fmt.Errorf("settle employee %s: gave up after %d attempts: %w",
		req.EmployeeID, attempts, generic.ErrConcurrentModification)
}

func (s *Service) newPayment(emp payroll.Employee, result payroll.Result, eval generic.TimePoint, req Request) payroll.Payment {
	return payroll.Payment{
		ID:           generic.PaymentID(s.NewID()),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		BranchID:     emp.BranchID,
		BaseSalary:   result.BaseSalary,
		Advances:     result.TotalAdvanceDue,
		Deductions:   result.TotalDeductions,
		Rewards:      result.TotalRewards,
		NetSalary:    result.NetSalary,
		PaymentDate:  eval,
		Period:       payroll.PeriodLabel(emp.PayFrequency, eval),
		PayFrequency: emp.PayFrequency,
		PaidBy:       req.PaidBy,
		Notes:        req.Notes,
		CreatedAt:    time.Now().UTC(),
	}
}

func (s *Service) notifyPaid(ctx context.Context, emp payroll.Employee, p payroll.Payment) {
	amount := p.NetSalary.Display()
	if s.Currency != "" {
		amount += " " + s.Currency
	}

	n := notify.Notification{
		UserID:     string(emp.ID),
		Title:      "Salary paid",
		Message:    fmt.Sprintf("Your salary of %s for %s has been paid", amount, p.Period),
		Type:       notify.TypeSuccess,
		ActionType: notify.ActionPayment,
		ActionID:   string(p.ID),
		Phone:      emp.Phone,
		Params:     []string{emp.Name, amount, p.Period},
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"employee_id": emp.ID,
			"payment_id":  p.ID,
		}).Warn("salary notification failed")
	}
}

func (s *Service) logWarnings(result payroll.Result) {
	for _, w := range result.Warnings {
		s.Logger.WithFields(logrus.Fields{
			"employee_id": w.EmployeeID,
			"record_id":   w.RecordID,
			"field":       w.Field,
		}).Warn(w.Message)
	}
	if result.Shortfall.IsPositive() {
		s.Logger.WithFields(logrus.Fields{
			"employee_id": result.EmployeeID,
			"shortfall":   result.Shortfall.String(),
		}).Warn("net salary floored at zero, shortfall not carried forward")
	}
}
