package employee

import (
	"time"
)

// Employee is the main employee entity. Balances are whole days and are only
// mutated through the balance ledger (AdjustBalance) or leave transitions.
type Employee struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	Department         string    `json:"department" gorm:"not null"`
	JoiningDate        time.Time `json:"joining_date" gorm:"column:joining_date;type:date;not null"`
	AnnualLeaveBalance int       `json:"annual_leave_balance" gorm:"column:annual_leave_balance"`
	SickLeaveBalance   int       `json:"sick_leave_balance" gorm:"column:sick_leave_balance"`
	IsActive           bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Departments is the closed set of valid departments.
var Departments = []string{"Engineering", "HR", "Finance", "Marketing", "Sales", "Operations"}

func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// BalanceType selects which balance column a ledger operation touches.
// Emergency leave carries no balance and is not a valid ledger target.
type BalanceType string

const (
	BalanceAnnual BalanceType = "annual"
	BalanceSick   BalanceType = "sick"
)

func (t BalanceType) Valid() bool {
	return t == BalanceAnnual || t == BalanceSick
}

// BalanceOperation is the closed set of ledger operations. Dispatch is always
// by switch; the value never reaches SQL as text.
type BalanceOperation string

const (
	OperationAdd      BalanceOperation = "add"
	OperationSubtract BalanceOperation = "subtract"
)

func (op BalanceOperation) Valid() bool {
	return op == OperationAdd || op == OperationSubtract
}

// Balance returns the employee's current balance for the given type.
func (e *Employee) Balance(t BalanceType) int {
	if t == BalanceSick {
		return e.SickLeaveBalance
	}
	return e.AnnualLeaveBalance
}

const (
	DefaultAnnualEntitlement = 24
	DefaultSickEntitlement   = 12
)

// ProRatedAnnualEntitlement computes the initial annual-leave entitlement for
// an employee joining on the given date. Joining on or before Jan 1 of the
// current year grants the full default. Mid-year joiners get a linear
// pro-ration over the actual year length, counting the joining day through
// Dec 31 inclusive, rounded down. One rule, applied everywhere.
func ProRatedAnnualEntitlement(joining, now time.Time, annualDefault int) int {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if !joining.After(yearStart) {
		return annualDefault
	}

	yearEnd := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if joining.After(yearEnd) {
		return 0
	}

	daysInYear := int(yearEnd.Sub(yearStart).Hours()/24) + 1
	remaining := int(yearEnd.Sub(joining).Hours()/24) + 1

	return annualDefault * remaining / daysInYear
}

// ValidateJoiningDate enforces the hiring-window rule: not in the future and
// not more than ten years back.
func ValidateJoiningDate(joining, now time.Time) error {
	if joining.After(now) {
		return errJoiningInFuture
	}
	if joining.Before(now.AddDate(-10, 0, 0)) {
		return errJoiningTooOld
	}
	return nil
}

// DepartmentStat is one row of the department aggregate.
type DepartmentStat struct {
	Department       string  `json:"department"`
	TotalEmployees   int64   `json:"total_employees"`
	AvgAnnualBalance float64 `json:"avg_annual_balance"`
	AvgSickBalance   float64 `json:"avg_sick_balance"`
}

// Repository defines the data access methods for employees. Only active
// employees are visible through lookups; deactivation is a soft delete.
type Repository interface {
	Create(emp *Employee) error
	GetByID(id int64) (*Employee, error)
	GetByEmail(email string) (*Employee, error)
	GetAll() ([]*Employee, error)
	DepartmentStats() ([]DepartmentStat, error)
	// AdjustBalance applies a guarded add/subtract to one balance column.
	// A subtract that would go negative affects no rows and returns
	// ErrInsufficientBalance.
	AdjustBalance(employeeID int64, balanceType BalanceType, days int, op BalanceOperation) error
}
