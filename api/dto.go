/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags; handlers call
  h.validate.Struct before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/notify"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	BranchID     string  `json:"branch_id,omitempty"`
	Position     string  `json:"position,omitempty"`
	Salary       float64 `json:"salary"`
	PayFrequency string  `json:"payment_frequency"`
	HireDate     string  `json:"hire_date"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone"`
	BranchID     string  `json:"branch_id"`
	Position     string  `json:"position"`
	Salary       float64 `json:"salary" validate:"gte=0"`
	PayFrequency string  `json:"payment_frequency" validate:"omitempty,oneof=weekly monthly"`
	HireDate     string  `json:"hire_date" validate:"required,datetime=2006-01-02"`
}

// AdvanceDTO represents an advance request.
type AdvanceDTO struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	Amount             float64 `json:"amount"`
	PaidAmount         float64 `json:"paid_amount"`
	Remaining          float64 `json:"remaining"`
	Status             string  `json:"status"`
	RequestDate        string  `json:"request_date"`
	RepaymentPeriod    int     `json:"repayment_period"`
	RepaymentFrequency string  `json:"repayment_type"`
	Reason             string  `json:"reason,omitempty"`
	ApprovedBy         string  `json:"approved_by,omitempty"`
	ApprovedDate       string  `json:"approved_date,omitempty"`
	Notes              string  `json:"notes,omitempty"`
}

// CreateAdvanceRequest submits a new advance (always starts pending).
type CreateAdvanceRequest struct {
	Amount             float64 `json:"amount" validate:"gt=0"`
	RequestDate        string  `json:"request_date" validate:"omitempty,datetime=2006-01-02"`
	RepaymentPeriod    int     `json:"repayment_period" validate:"gte=1"`
	RepaymentFrequency string  `json:"repayment_type" validate:"omitempty,oneof=weekly monthly"`
	Reason             string  `json:"reason"`
	Notes              string  `json:"notes"`
}

// DecisionRequest approves or rejects an advance.
type DecisionRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string `json:"notes"`
}

// EntryRequest creates a deduction, absence or reward.
type EntryRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Type   string  `json:"type" validate:"omitempty,oneof=absence late penalty other"`
	Reason string  `json:"reason"`
	Notes  string  `json:"notes"`
}

// EntryDTO is a deduction, absence or reward in responses.
type EntryDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Type       string  `json:"type,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	CreatedBy  string  `json:"created_by,omitempty"`
}

// SettlementDTO is a computed (not necessarily persisted) settlement.
type SettlementDTO struct {
	EmployeeID             string            `json:"employee_id"`
	WindowStart            string            `json:"window_start"`
	WindowEnd              string            `json:"window_end"`
	BaseSalary             float64           `json:"base_salary"`
	TotalAdvanceDue        float64           `json:"total_advance_due"`
	TotalManualDeductions  float64           `json:"total_manual_deductions"`
	TotalAbsenceDeductions float64           `json:"total_absence_deductions"`
	TotalDeductions        float64           `json:"total_deductions"`
	TotalRewards           float64           `json:"total_rewards"`
	NetSalary              float64           `json:"net_salary"`
	Shortfall              float64           `json:"shortfall,omitempty"`
	AdvanceLines           []AdvanceLineDTO  `json:"advance_details"`
	AdvanceLedgerUpdates   []LedgerUpdateDTO `json:"advance_ledger_updates"`
	Warnings               []string          `json:"warnings,omitempty"`
}

type AdvanceLineDTO struct {
	AdvanceID         string  `json:"id"`
	TotalAmount       float64 `json:"total_amount"`
	CurrentPaid       float64 `json:"current_paid"`
	InstallmentAmount float64 `json:"installment_amount"`
	DuePeriods        int     `json:"due_periods"`
	DueAmount         float64 `json:"due_amount"`
}

type LedgerUpdateDTO struct {
	AdvanceID     string  `json:"advance_id"`
	NewPaidAmount float64 `json:"new_paid_amount"`
	NewStatus     string  `json:"new_status"`
}

// PaySalaryRequest settles the employee's current window.
type PaySalaryRequest struct {
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string `json:"notes"`
}

// PaymentDTO represents a completed settlement.
type PaymentDTO struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	BranchID     string  `json:"branch_id,omitempty"`
	BaseSalary   float64 `json:"base_salary"`
	Advances     float64 `json:"advances"`
	Deductions   float64 `json:"deductions"`
	Rewards      float64 `json:"rewards"`
	NetSalary    float64 `json:"net_salary"`
	PaymentDate  string  `json:"payment_date"`
	Period       string  `json:"period"`
	PayFrequency string  `json:"payment_frequency"`
	PaidBy       string  `json:"paid_by,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// PaySalaryResponse is returned after a successful settlement.
type PaySalaryResponse struct {
	Payment    PaymentDTO    `json:"payment"`
	Settlement SettlementDTO `json:"settlement"`
	Attempts   int           `json:"attempts"`
}

type NextPaydayDTO struct {
	EmployeeID  string `json:"employee_id"`
	NextPayDate string `json:"next_pay_date"`
	Due         bool   `json:"due"`
	LastPayment string `json:"last_payment,omitempty"`
}

type NotificationDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Date       string `json:"date"`
	Read       bool   `json:"read"`
	ActionType string `json:"action_type,omitempty"`
	ActionID   string `json:"action_id,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           string(e.ID),
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		BranchID:     e.BranchID,
		Position:     e.Position,
		Salary:       e.BaseSalary.Float64(),
		PayFrequency: string(e.PayFrequency),
		HireDate:     e.HireDate.String(),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAdvanceDTO(a payroll.AdvanceRequest) AdvanceDTO {
	dto := AdvanceDTO{
		ID:                 string(a.ID),
		EmployeeID:         string(a.EmployeeID),
		Amount:             a.Amount.Float64(),
		PaidAmount:         a.PaidAmount.Float64(),
		Remaining:          a.Remaining().Float64(),
		Status:             string(a.Status),
		RequestDate:        a.RequestDate.String(),
		RepaymentPeriod:    a.RepaymentPeriod,
		RepaymentFrequency: string(a.RepaymentFrequency),
		Reason:             a.Reason,
		ApprovedBy:         a.ApprovedBy,
		Notes:              a.Notes,
	}
	if a.ApprovedDate != nil {
		dto.ApprovedDate = a.ApprovedDate.String()
	}
	return dto
}

func toSettlementDTO(r payroll.Result) SettlementDTO {
	dto := SettlementDTO{
		EmployeeID:             string(r.EmployeeID),
		WindowStart:            r.Window.Start.String(),
		WindowEnd:              r.Window.End.String(),
		BaseSalary:             r.BaseSalary.Float64(),
		TotalAdvanceDue:        r.TotalAdvanceDue.Float64(),
		TotalManualDeductions:  r.TotalManualDeductions.Float64(),
		TotalAbsenceDeductions: r.TotalAbsenceDeductions.Float64(),
		TotalDeductions:        r.TotalDeductions.Float64(),
		TotalRewards:           r.TotalRewards.Float64(),
		NetSalary:              r.NetSalary.Float64(),
		Shortfall:              r.Shortfall.Float64(),
		AdvanceLines:           make([]AdvanceLineDTO, 0, len(r.AdvanceLines)),
		AdvanceLedgerUpdates:   make([]LedgerUpdateDTO, 0, len(r.AdvanceLedgerUpdates)),
	}
	for _, l := range r.AdvanceLines {
		dto.AdvanceLines = append(dto.AdvanceLines, AdvanceLineDTO{
			AdvanceID:         string(l.AdvanceID),
			TotalAmount:       l.TotalAmount.Float64(),
			CurrentPaid:       l.PaidAmountBefore.Float64(),
			InstallmentAmount: l.InstallmentAmount.Float64(),
			DuePeriods:        l.DuePeriods,
			DueAmount:         l.DueAmount.Float64(),
		})
	}
	for _, u := range r.AdvanceLedgerUpdates {
		dto.AdvanceLedgerUpdates = append(dto.AdvanceLedgerUpdates, LedgerUpdateDTO{
			AdvanceID:     string(u.AdvanceID),
			NewPaidAmount: u.NewPaidAmount.Float64(),
			NewStatus:     string(u.NewStatus),
		})
	}
	for _, w := range r.Warnings {
		dto.Warnings = append(dto.Warnings, w.String())
	}
	return dto
}

func toPaymentDTO(p payroll.Payment) PaymentDTO {
	return PaymentDTO{
		ID:           string(p.ID),
		EmployeeID:   string(p.EmployeeID),
		EmployeeName: p.EmployeeName,
		BranchID:     p.BranchID,
		BaseSalary:   p.BaseSalary.Float64(),
		Advances:     p.Advances.Float64(),
		Deductions:   p.Deductions.Float64(),
		Rewards:      p.Rewards.Float64(),
		NetSalary:    p.NetSalary.Float64(),
		PaymentDate:  p.PaymentDate.String(),
		Period:       p.Period,
		PayFrequency: string(p.PayFrequency),
		PaidBy:       p.PaidBy,
		Notes:        p.Notes,
	}
}

func toNotificationDTO(n notify.Notification) NotificationDTO {
	return NotificationDTO{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       string(n.Type),
		Date:       n.Date.Format(time.RFC3339),
		Read:       n.Read,
		ActionType: string(n.ActionType),
		ActionID:   n.ActionID,
	}
}

func amountFromFloat(f float64) generic.Amount {
	return generic.NewAmount(f)
}
