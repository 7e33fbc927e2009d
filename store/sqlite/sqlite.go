/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements payroll.Repository and notify.Store using SQLite. The same
  statements run on PostgreSQL with minor dialect changes.

INTERFACES IMPLEMENTED:
  payroll.Reader:     Settlement input snapshots
  payroll.Writer:     Atomic settlement application (compare-and-swap)
  payroll.Repository: Record creation and advance approval workflow
  notify.Store:       In-app notifications

KEY TABLES:
  employees:       Employee master data (base salary, pay frequency)
  advances:        Advance requests with cumulative paid_amount
  deductions:      Manual one-shot deductions
  absences:        Absences with their penalty
  rewards:         One-shot rewards
  salary_payments: Completed settlements
  notifications:   In-app notifications

MONEY:
  Amounts are stored as TEXT decimal strings and parsed back into
  generic.Amount, so nothing is lost to floating point.

OPTIMISTIC CONCURRENCY:
  ApplySettlement runs in one SQL transaction. For each advance it reads
  paid_amount and compares it, as a decimal, with the value the settlement
  read. A mismatch means another settlement got there first; the
  transaction is rolled back and generic.ErrConcurrentModification is
  returned. The last payment date is
  checked the same way so a window is never settled twice.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ payroll.Repository = (*Store)(nil)
	_ notify.Store       = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would be a different database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		branch_id TEXT,
		position TEXT,
		base_salary TEXT NOT NULL,
		pay_frequency TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Advances (paid_amount/status only change through ApplySettlement)
	CREATE TABLE IF NOT EXISTS advances (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		request_date TEXT NOT NULL,
		repayment_period INTEGER NOT NULL,
		repayment_frequency TEXT NOT NULL,
		paid_amount TEXT NOT NULL DEFAULT '0',
		reason TEXT,
		approved_by TEXT,
		approved_date TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_advances_employee
		ON advances(employee_id, request_date);

	-- One-shot entries, keyed by date
	CREATE TABLE IF NOT EXISTS deductions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'other',
		reason TEXT,
		created_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_deductions_employee_date
		ON deductions(employee_id, date);

	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		date TEXT NOT NULL,
		deduction_amount TEXT NOT NULL DEFAULT '0',
		reason TEXT,
		created_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee_date
		ON absences(employee_id, date);

	CREATE TABLE IF NOT EXISTS rewards (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		reason TEXT,
		notes TEXT,
		created_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_rewards_employee_date
		ON rewards(employee_id, date);

	-- Completed settlements
	CREATE TABLE IF NOT EXISTS salary_payments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		employee_name TEXT,
		branch_id TEXT,
		base_salary TEXT NOT NULL,
		advances TEXT NOT NULL,
		deductions TEXT NOT NULL,
		rewards TEXT NOT NULL,
		net_salary TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		period TEXT NOT NULL,
		payment_frequency TEXT NOT NULL,
		paid_by TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	-- One payment per employee per day
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_employee_date
		ON salary_payments(employee_id, payment_date);

	-- Notifications
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		date TEXT NOT NULL,
		read BOOLEAN DEFAULT FALSE,
		action_type TEXT,
		action_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_user
		ON notifications(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_notifications_action
		ON notifications(user_id, action_type, action_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, phone, branch_id, position,
			base_salary, pay_frequency, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			branch_id = excluded.branch_id,
			position = excluded.position,
			base_salary = excluded.base_salary,
			pay_frequency = excluded.pay_frequency,
			hire_date = excluded.hire_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, emp.Phone, emp.BranchID, emp.Position,
		emp.BaseSalary.String(),
		string(emp.PayFrequency),
		emp.HireDate.String(),
		now(),
	)
	return err
}

const employeeColumns = `id, name, email, phone, branch_id, position,
	base_salary, pay_frequency, hire_date, created_at`

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row scanner) (payroll.Employee, error) {
	var (
		emp                         payroll.Employee
		email, phone, branch, pos   sql.NullString
		salary, freq, hire, created string
	)
	err := row.Scan(&emp.ID, &emp.Name, &email, &phone, &branch, &pos,
		&salary, &freq, &hire, &created)
	if err != nil {
		return emp, err
	}
	emp.Email = email.String
	emp.Phone = phone.String
	emp.BranchID = branch.String
	emp.Position = pos.String
	if err := parseAmounts(amountColumn{"base_salary", salary, &emp.BaseSalary}); err != nil {
		return emp, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	emp.PayFrequency = generic.Frequency(freq)
	emp.HireDate = parseDate(hire)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return emp, nil
}

// =============================================================================
// ADVANCES
// =============================================================================

// CreateAdvance stores a new advance request.
func (s *Store) CreateAdvance(ctx context.Context, adv payroll.AdvanceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO advances (id, employee_id, amount, status, request_date,
			repayment_period, repayment_frequency, paid_amount, reason,
			approved_by, approved_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		adv.ID, adv.EmployeeID, adv.Amount.String(), string(adv.Status),
		adv.RequestDate.String(), adv.RepaymentPeriod, string(adv.RepaymentFrequency),
		adv.PaidAmount.String(), nullString(adv.Reason),
		nullString(adv.ApprovedBy), nullDate(adv.ApprovedDate), nullString(adv.Notes),
		now(),
	)
	return err
}

const advanceColumns = `id, employee_id, amount, status, request_date,
	repayment_period, repayment_frequency, paid_amount, reason,
	approved_by, approved_date, notes, created_at`

// GetAdvance retrieves an advance by ID.
func (s *Store) GetAdvance(ctx context.Context, id generic.AdvanceID) (*payroll.AdvanceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+advanceColumns+" FROM advances WHERE id = ?", id)
	adv, err := scanAdvance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrAdvanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &adv, nil
}

// ListAdvances returns every advance of an employee, oldest first.
func (s *Store) ListAdvances(ctx context.Context, employeeID generic.EmployeeID) ([]payroll.AdvanceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+advanceColumns+" FROM advances WHERE employee_id = ? ORDER BY request_date, created_at",
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	var advances []payroll.AdvanceRequest
	for rows.Next() {
		adv, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		advances = append(advances, adv)
	}
	return advances, rows.Err()
}

func scanAdvance(row scanner) (payroll.AdvanceRequest, error) {
	var (
		adv                                  payroll.AdvanceRequest
		amount, status, reqDate, freq, paid  string
		reason, approvedBy, approvedAt, note sql.NullString
		created                              string
	)
	err := row.Scan(&adv.ID, &adv.EmployeeID, &amount, &status, &reqDate,
		&adv.RepaymentPeriod, &freq, &paid, &reason,
		&approvedBy, &approvedAt, &note, &created)
	if err != nil {
		return adv, err
	}
	err = parseAmounts(
		amountColumn{"amount", amount, &adv.Amount},
		amountColumn{"paid_amount", paid, &adv.PaidAmount},
	)
	if err != nil {
		return adv, fmt.Errorf("advance %s: %w", adv.ID, err)
	}
	adv.Status = payroll.AdvanceStatus(status)
	adv.RequestDate = parseDate(reqDate)
	adv.RepaymentFrequency = generic.Frequency(freq)
	adv.Reason = reason.String
	adv.ApprovedBy = approvedBy.String
	if approvedAt.Valid && approvedAt.String != "" {
		d := parseDate(approvedAt.String)
		adv.ApprovedDate = &d
	}
	adv.Notes = note.String
	adv.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return adv, nil
}

// DecideAdvance approves or rejects a pending advance. The status check is
// part of the UPDATE so two reviewers cannot both win.
func (s *Store) DecideAdvance(ctx context.Context, id generic.AdvanceID, status payroll.AdvanceStatus, by string, on generic.TimePoint) error {
	if status != payroll.AdvanceApproved && status != payroll.AdvanceRejected {
		return generic.ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE advances SET status = ?, approved_by = ?, approved_date = ?
		WHERE id = ? AND status = ?`,
		string(status), by, on.String(), id, string(payroll.AdvancePending))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM advances WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return generic.ErrAdvanceNotFound
	}
	return generic.ErrInvalidTransition
}

// =============================================================================
// ONE-SHOT ENTRIES
// =============================================================================

func (s *Store) CreateDeduction(ctx context.Context, d payroll.Deduction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO deductions (id, employee_id, amount, date, type, reason, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.EmployeeID, d.Amount.String(), d.Date.String(), string(d.Type),
		nullString(d.Reason), nullString(d.CreatedBy))
	return err
}

func (s *Store) CreateAbsence(ctx context.Context, a payroll.Absence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absences (id, employee_id, date, deduction_amount, reason, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.EmployeeID, a.Date.String(), a.DeductionAmount.String(),
		nullString(a.Reason), nullString(a.CreatedBy))
	return err
}

func (s *Store) CreateReward(ctx context.Context, r payroll.Reward) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rewards (id, employee_id, amount, date, reason, notes, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.EmployeeID, r.Amount.String(), r.Date.String(),
		nullString(r.Reason), nullString(r.Notes), nullString(r.CreatedBy))
	return err
}

func (s *Store) ListDeductions(ctx context.Context, employeeID generic.EmployeeID) ([]payroll.Deduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, amount, date, type, reason, created_by
		FROM deductions WHERE employee_id = ? ORDER BY date`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions: %w", err)
	}
	defer rows.Close()

	var result []payroll.Deduction
	for rows.Next() {
		var (
			d                 payroll.Deduction
			amount, date, typ string
			reason, by        sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.EmployeeID, &amount, &date, &typ, &reason, &by); err != nil {
			return nil, err
		}
		if err := parseAmounts(amountColumn{"amount", amount, &d.Amount}); err != nil {
			return nil, fmt.Errorf("deduction %s: %w", d.ID, err)
		}
		d.Date = parseDate(date)
		d.Type = payroll.DeductionType(typ)
		d.Reason = reason.String
		d.CreatedBy = by.String
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) ListAbsences(ctx context.Context, employeeID generic.EmployeeID) ([]payroll.Absence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, deduction_amount, reason, created_by
		FROM absences WHERE employee_id = ? ORDER BY date`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var result []payroll.Absence
	for rows.Next() {
		var (
			a            payroll.Absence
			date, amount string
			reason, by   sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &date, &amount, &reason, &by); err != nil {
			return nil, err
		}
		a.Date = parseDate(date)
		if err := parseAmounts(amountColumn{"deduction_amount", amount, &a.DeductionAmount}); err != nil {
			return nil, fmt.Errorf("absence %s: %w", a.ID, err)
		}
		a.Reason = reason.String
		a.CreatedBy = by.String
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) ListRewards(ctx context.Context, employeeID generic.EmployeeID) ([]payroll.Reward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, amount, date, reason, notes, created_by
		FROM rewards WHERE employee_id = ? ORDER BY date`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}
	defer rows.Close()

	var result []payroll.Reward
	for rows.Next() {
		var (
			r                 payroll.Reward
			amount, date      string
			reason, notes, by sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &amount, &date, &reason, &notes, &by); err != nil {
			return nil, err
		}
		if err := parseAmounts(amountColumn{"amount", amount, &r.Amount}); err != nil {
			return nil, fmt.Errorf("reward %s: %w", r.ID, err)
		}
		r.Date = parseDate(date)
		r.Reason = reason.String
		r.Notes = notes.String
		r.CreatedBy = by.String
		result = append(result, r)
	}
	return result, rows.Err()
}

// =============================================================================
// PAYMENTS
// =============================================================================

const paymentColumns = `id, employee_id, employee_name, branch_id, base_salary,
	advances, deductions, rewards, net_salary, payment_date, period,
	payment_frequency, paid_by, notes, created_at`

// LastPayment returns the most recent payment, or nil if never paid.
func (s *Store) LastPayment(ctx context.Context, employeeID generic.EmployeeID) (*payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lastPayment(ctx, s.db, employeeID)
}

func lastPayment(ctx context.Context, q querier, employeeID generic.EmployeeID) (*payroll.Payment, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+paymentColumns+` FROM salary_payments
		 WHERE employee_id = ? ORDER BY payment_date DESC, created_at DESC LIMIT 1`,
		employeeID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPayments returns an employee's payments, newest first.
func (s *Store) ListPayments(ctx context.Context, employeeID generic.EmployeeID) ([]payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM salary_payments WHERE employee_id = ? ORDER BY payment_date DESC",
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var result []payroll.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanPayment(row scanner) (payroll.Payment, error) {
	var (
		p                                         payroll.Payment
		name, branch, paidBy, notes               sql.NullString
		base, adv, ded, rew, net, date, freq, crt string
	)
	err := row.Scan(&p.ID, &p.EmployeeID, &name, &branch, &base,
		&adv, &ded, &rew, &net, &date, &p.Period,
		&freq, &paidBy, &notes, &crt)
	if err != nil {
		return p, err
	}
	p.EmployeeName = name.String
	p.BranchID = branch.String
	err = parseAmounts(
		amountColumn{"base_salary", base, &p.BaseSalary},
		amountColumn{"advances", adv, &p.Advances},
		amountColumn{"deductions", ded, &p.Deductions},
		amountColumn{"rewards", rew, &p.Rewards},
		amountColumn{"net_salary", net, &p.NetSalary},
	)
	if err != nil {
		return p, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	p.PaymentDate = parseDate(date)
	p.PayFrequency = generic.Frequency(freq)
	p.PaidBy = paidBy.String
	p.Notes = notes.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, crt)
	return p, nil
}

// ApplySettlement records the payment and advances each paid amount in one
// SQL transaction, compare-and-swapping on the values the settlement read.
func (s *Store) ApplySettlement(ctx context.Context, payment payroll.Payment, updates []payroll.LedgerUpdate, expectedLast *generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	last, err := lastPayment(ctx, sqlTx, payment.EmployeeID)
	if err != nil {
		return err
	}
	switch {
	case last == nil && expectedLast != nil,
		last != nil && expectedLast == nil,
		last != nil && !last.PaymentDate.Equal(*expectedLast):
		return generic.ErrConcurrentModification
	}

	for _, u := range updates {
		var raw string
		err := sqlTx.QueryRowContext(ctx,
			"SELECT paid_amount FROM advances WHERE id = ?", u.AdvanceID).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return generic.ErrConcurrentModification
		}
		if err != nil {
			return fmt.Errorf("failed to read advance %s: %w", u.AdvanceID, err)
		}
		var current generic.Amount
		if err := parseAmounts(amountColumn{"paid_amount", raw, &current}); err != nil {
			return fmt.Errorf("advance %s: %w", u.AdvanceID, err)
		}
		// Compared as decimals: "100" and "100.00" are the same balance.
		if !current.Equal(u.PaidAmountBefore) {
			return generic.ErrConcurrentModification
		}

		_, err = sqlTx.ExecContext(ctx,
			"UPDATE advances SET paid_amount = ?, status = ? WHERE id = ?",
			u.NewPaidAmount.String(), string(u.NewStatus), u.AdvanceID)
		if err != nil {
			return fmt.Errorf("failed to update advance %s: %w", u.AdvanceID, err)
		}
	}

	created := payment.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = sqlTx.ExecContext(ctx,
		"INSERT INTO salary_payments ("+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.EmployeeID, nullString(payment.EmployeeName), nullString(payment.BranchID),
		payment.BaseSalary.String(), payment.Advances.String(), payment.Deductions.String(),
		payment.Rewards.String(), payment.NetSalary.String(), payment.PaymentDate.String(),
		payment.Period, string(payment.PayFrequency), nullString(payment.PaidBy),
		nullString(payment.Notes), created.Format(time.RFC3339))
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrConcurrentModification
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return sqlTx.Commit()
}

// =============================================================================
// NOTIFICATIONS (notify.Store)
// =============================================================================

func (s *Store) SaveNotification(ctx context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, date, read, action_type, action_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, string(n.Type),
		n.Date.UTC().Format(time.RFC3339), n.Read,
		nullString(string(n.ActionType)), nullString(n.ActionID))
	return err
}

func (s *Store) HasNotification(ctx context.Context, userID string, action notify.ActionType, actionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = ? AND action_type = ? AND action_id = ?`,
		userID, string(action), actionID).Scan(&count)
	return count > 0, err
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]notify.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, type, date, read, action_type, action_id
		FROM notifications WHERE user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []notify.Notification
	for rows.Next() {
		var (
			n                notify.Notification
			typ, date        string
			action, actionID sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &date, &n.Read, &action, &actionID); err != nil {
			return nil, err
		}
		n.Type = notify.Type(typ)
		n.Date, _ = time.Parse(time.RFC3339, date)
		n.ActionType = notify.ActionType(action.String)
		n.ActionID = actionID.String
		result = append(result, n)
	}
	return result, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"notifications", "salary_payments", "rewards", "absences", "deductions", "advances", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseDate(s string) generic.TimePoint {
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}
	}
	return tp
}

type amountColumn struct {
	name string
	raw  string
	dst  *generic.Amount
}

// parseAmounts decodes stored decimal TEXT into each destination.
func parseAmounts(cols ...amountColumn) error {
	for _, c := range cols {
		a, err := generic.ParseAmount(c.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", c.name, c.raw, err)
		}
		*c.dst = a
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(tp *generic.TimePoint) sql.NullString {
	if tp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
