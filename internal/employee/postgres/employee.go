package postgres

import (
	"errors"
	"time"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetByEmail(email string) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("LOWER(email) = LOWER(?) AND is_active = ?", email, true).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) GetAll() ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) DepartmentStats() ([]employee.DepartmentStat, error) {
	var stats []employee.DepartmentStat
	err := r.db.Model(&employee.Employee{}).
		Select("department, COUNT(*) as total_employees, AVG(annual_leave_balance) as avg_annual_balance, AVG(sick_leave_balance) as avg_sick_balance").
		Where("is_active = ?", true).
		Group("department").
		Order("department ASC").
		Scan(&stats).Error
	return stats, err
}

// AdjustBalance applies a guarded ledger mutation. The balance column and
// operator are chosen by switch on closed enums; a subtract condition keeps
// the committed balance non-negative even under racing writers.
func (r *EmployeeRepository) AdjustBalance(employeeID int64, balanceType employee.BalanceType, days int, op employee.BalanceOperation) error {
	var column string
	switch balanceType {
	case employee.BalanceAnnual:
		column = "annual_leave_balance"
	case employee.BalanceSick:
		column = "sick_leave_balance"
	default:
		return internal.NewBusinessRuleError("unknown balance type", internal.ErrCodeInvalidLeaveType)
	}

	tx := r.db.Model(&employee.Employee{}).Where("id = ? AND is_active = ?", employeeID, true)

	switch op {
	case employee.OperationAdd:
		tx = tx.Updates(map[string]interface{}{
			column:       gorm.Expr(column+" + ?", days),
			"updated_at": time.Now(),
		})
	case employee.OperationSubtract:
		tx = tx.Where(column+" >= ?", days).Updates(map[string]interface{}{
			column:       gorm.Expr(column+" - ?", days),
			"updated_at": time.Now(),
		})
	default:
		return internal.NewBusinessRuleError("unknown balance operation", internal.ErrCodeInvalidOperation)
	}

	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		if op == employee.OperationSubtract {
			return employee.ErrInsufficientBalance
		}
		return internal.ErrEmployeeNotFound
	}
	return nil
}
