/*
Package notify delivers notifications produced by payroll workflows.

PURPOSE:
  After a settlement is persisted the caller tells the employee how much was
  paid. Delivery is best-effort: a failed notification is logged and never
  rolls back a payment.

DISPATCHERS:
  InApp:    Persists the notification for the mobile client to list
  WhatsApp: Sends a templated message through the WhatsApp Cloud API
  Multi:    Fans out to several dispatchers

SEE ALSO:
  - settlement/service.go: Dispatches after a successful settlement
  - api/scheduler.go: Pay-day reminders
*/
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeDanger  Type = "danger"
)

type ActionType string

const (
	ActionAdvance   ActionType = "advance"
	ActionDeduction ActionType = "deduction"
	ActionPayment   ActionType = "payment"
	ActionAbsence   ActionType = "absence"
	ActionPayday    ActionType = "payday"
)

// Notification is addressed to one user. Phone and Params are only used by
// message-based dispatchers.
type Notification struct {
	ID         string
	UserID     string
	Title      string
	Message    string
	Type       Type
	Date       time.Time
	Read       bool
	ActionType ActionType
	ActionID   string

	Phone  string
	Params []string
}

// Dispatcher delivers a notification.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) error
}

// Store persists in-app notifications.
type Store interface {
	SaveNotification(ctx context.Context, n Notification) error
	HasNotification(ctx context.Context, userID string, action ActionType, actionID string) (bool, error)
	ListNotifications(ctx context.Context, userID string) ([]Notification, error)
}

// =============================================================================
// IN-APP
// =============================================================================

type InApp struct {
	Store Store
	Now   func() time.Time
}

func NewInApp(store Store) *InApp {
	return &InApp{Store: store, Now: time.Now}
}

func (d *InApp) Notify(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Date.IsZero() {
		n.Date = d.Now().UTC()
	}
	return d.Store.SaveNotification(ctx, n)
}

// =============================================================================
// FAN-OUT
// =============================================================================

// Multi delivers to every dispatcher and joins the errors.
type Multi []Dispatcher

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops everything.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }
