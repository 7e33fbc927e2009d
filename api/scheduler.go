/*
scheduler.go - Pay-day reminder scheduler

PURPOSE:
  Periodically checks which employees are due for payment and posts one
  reminder per due pay date. It never settles anything; paying stays an
  explicit operator action.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Due = next pay date (payroll.NextPayDate) is on or before today
  - Each reminder carries action id "payday:<employee>:<date>"; a date
    that already has one is skipped, so restarts and short intervals
    never duplicate reminders

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPaydayScheduler(store, dispatcher, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - payroll/schedule.go: NextPayDate, IsPayDue
  - notify/notify.go: Dispatchers
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
)

// PaydayStore is what the scheduler reads.
type PaydayStore interface {
	ListEmployees(ctx context.Context) ([]payroll.Employee, error)
	LastPayment(ctx context.Context, employeeID generic.EmployeeID) (*payroll.Payment, error)
	HasNotification(ctx context.Context, userID string, action notify.ActionType, actionID string) (bool, error)
}

// PaydayScheduler posts pay-day reminders.
type PaydayScheduler struct {
	Store         PaydayStore
	Notifier      notify.Dispatcher
	Logger        logrus.FieldLogger
	CheckInterval time.Duration
	Enabled       bool
	Today         func() generic.TimePoint

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

const defaultCheckInterval = time.Hour

// NewPaydayScheduler creates a new scheduler.
func NewPaydayScheduler(store PaydayStore, notifier notify.Dispatcher, logger logrus.FieldLogger) *PaydayScheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PaydayScheduler{
		Store:         store,
		Notifier:      notifier,
		Logger:        logger.WithField("module", "scheduler"),
		CheckInterval: defaultCheckInterval,
		Enabled:       true,
		Today:         generic.Today,
	}
}

// Start begins the scheduler.
func (ps *PaydayScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		ps.Logger.Info("scheduler disabled, not starting")
		return
	}
	if ps.ticker != nil {
		return
	}

	if ps.CheckInterval <= 0 {
		ps.Logger.WithField("interval", ps.CheckInterval.String()).Warn("non-positive check interval, using default")
		ps.CheckInterval = defaultCheckInterval
	}
	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.stop = make(chan struct{})
	ps.wg.Add(1)

	go ps.run()

	ps.Logger.WithField("interval", ps.CheckInterval.String()).Info("scheduler started")
}

// Stop stops the scheduler.
func (ps *PaydayScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		ps.ticker = nil
		ps.Logger.Info("scheduler stopped")
	}
}

func (ps *PaydayScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndNotify(context.Background())

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndNotify(context.Background())
		case <-ps.stop:
			return
		}
	}
}

// RunNow triggers an immediate check and returns the number of reminders sent.
func (ps *PaydayScheduler) RunNow(ctx context.Context) int {
	return ps.checkAndNotify(ctx)
}

func (ps *PaydayScheduler) checkAndNotify(ctx context.Context) int {
	today := ps.Today()

	employees, err := ps.Store.ListEmployees(ctx)
	if err != nil {
		ps.Logger.WithError(err).Error("listing employees")
		return 0
	}

	sent, skipped := 0, 0
	for _, emp := range employees {
		log := ps.Logger.WithField("employee_id", emp.ID)

		last, err := ps.Store.LastPayment(ctx, emp.ID)
		if err != nil {
			log.WithError(err).Error("loading last payment")
			continue
		}
		var lastDate *generic.TimePoint
		if last != nil {
			lastDate = &last.PaymentDate
		}
		if !payroll.IsPayDue(emp, lastDate, today) {
			continue
		}

		due := payroll.NextPayDate(emp, lastDate, today)
		actionID := paydayActionID(emp.ID, due)

		done, err := ps.Store.HasNotification(ctx, string(emp.ID), notify.ActionPayday, actionID)
		if err != nil {
			log.WithError(err).Error("checking reminder status")
			continue
		}
		if done {
			skipped++
			continue
		}

		err = ps.Notifier.Notify(ctx, notify.Notification{
			UserID:     string(emp.ID),
			Title:      "Salary due",
			Message:    fmt.Sprintf("Salary for %s is due on %s", emp.Name, due),
			Type:       notify.TypeInfo,
			ActionType: notify.ActionPayday,
			ActionID:   actionID,
		})
		if err != nil {
			log.WithError(err).Warn("reminder failed")
			continue
		}
		sent++
	}

	if sent > 0 || skipped > 0 {
		ps.Logger.WithFields(logrus.Fields{"sent": sent, "skipped": skipped}).Info("pay-day check completed")
	}
	return sent
}

func paydayActionID(id generic.EmployeeID, due generic.TimePoint) string {
	return fmt.Sprintf("payday:%s:%s", id, due)
}
