package employee

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/symplora/leave-management/internal"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	errJoiningInFuture = errors.New("joining date cannot be in the future")
	errJoiningTooOld   = errors.New("joining date cannot be more than 10 years ago")

	// ErrInsufficientBalance is returned by the ledger when a subtract would
	// drive a balance negative.
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)

// CreateEmployeeDTO represents the request payload for registering an employee.
type CreateEmployeeDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	JoiningDate string `json:"joining_date"`
}

// Validate checks the request shape. Business rules (duplicate email,
// joining-date window) are enforced by the service.
func (dto *CreateEmployeeDTO) Validate() (time.Time, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	dto.Department = strings.TrimSpace(dto.Department)

	if dto.Name == "" {
		return time.Time{}, internal.NewValidationError("Name is required", internal.ErrCodeValidationFailed)
	}
	if !emailPattern.MatchString(dto.Email) {
		return time.Time{}, internal.NewValidationError("Please provide a valid email address", internal.ErrCodeValidationFailed)
	}
	if !ValidDepartment(dto.Department) {
		return time.Time{}, internal.NewValidationError(
			"Department must be one of: "+strings.Join(Departments, ", "),
			internal.ErrCodeInvalidDepartment)
	}
	joining, err := internal.ParseDate(dto.JoiningDate)
	if err != nil {
		return time.Time{}, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
	}
	return joining, nil
}

// AdjustBalanceDTO is the admin-style manual balance adjustment payload.
type AdjustBalanceDTO struct {
	LeaveType string `json:"leave_type"`
	Days      int    `json:"days"`
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

func (dto *AdjustBalanceDTO) Validate() error {
	if !BalanceType(dto.LeaveType).Valid() {
		return internal.NewBusinessRuleError(`Leave type must be either "annual" or "sick"`, internal.ErrCodeInvalidLeaveType)
	}
	if dto.Operation == "" {
		dto.Operation = string(OperationSubtract)
	}
	if !BalanceOperation(dto.Operation).Valid() {
		return internal.NewBusinessRuleError(`Operation must be either "add" or "subtract"`, internal.ErrCodeInvalidOperation)
	}
	if dto.Days <= 0 {
		return internal.NewBusinessRuleError("Days must be a positive number", internal.ErrCodeLeaveRuleViolation)
	}
	if len(strings.TrimSpace(dto.Reason)) < 5 {
		return internal.NewBusinessRuleError("Reason is required and must be at least 5 characters", internal.ErrCodeLeaveRuleViolation)
	}
	return nil
}

// BalanceDetail is one leave type's slice of the balance summary.
type BalanceDetail struct {
	TotalEntitlement int     `json:"total_entitlement"`
	RemainingBalance int     `json:"remaining_balance"`
	Used             int     `json:"used"`
	UtilizationPct   float64 `json:"utilization_percentage"`
}

// LeaveBalanceResponse mirrors the balance summary shape the frontend renders.
type LeaveBalanceResponse struct {
	EmployeeID    int64                    `json:"employee_id"`
	EmployeeName  string                   `json:"employee_name"`
	Department    string                   `json:"department"`
	JoiningDate   string                   `json:"joining_date"`
	LeaveBalances map[string]BalanceDetail `json:"leave_balances"`
}

// AdjustBalanceResponse echoes the applied operation with the new balances.
type AdjustBalanceResponse struct {
	EmployeeID       int64            `json:"employee_id"`
	EmployeeName     string           `json:"employee_name"`
	OperationDetails AdjustBalanceDTO `json:"operation_details"`
	UpdatedBalances  UpdatedBalances  `json:"updated_balances"`
}

type UpdatedBalances struct {
	AnnualLeaveBalance int `json:"annual_leave_balance"`
	SickLeaveBalance   int `json:"sick_leave_balance"`
}

// DepartmentStatsResponse is the aggregate plus a company-level summary.
type DepartmentStatsResponse struct {
	DepartmentBreakdown []DepartmentStat     `json:"department_breakdown"`
	Summary             DepartmentSummaryRow `json:"summary"`
}

type DepartmentSummaryRow struct {
	TotalEmployees          int64   `json:"total_employees"`
	TotalDepartments        int     `json:"total_departments"`
	CompanyAvgAnnualBalance float64 `json:"company_avg_annual_balance"`
	CompanyAvgSickBalance   float64 `json:"company_avg_sick_balance"`
}
