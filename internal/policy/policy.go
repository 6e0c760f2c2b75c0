package policy

import "time"

// LeavePolicy is a read-mostly catalog row describing one leave type's rules.
// Balances are still enforced in the leave service; the catalog exists so the
// frontend can render rules without hardcoding them.
type LeavePolicy struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	LeaveType       string    `json:"leave_type" gorm:"column:leave_type;uniqueIndex;not null"`
	DisplayName     string    `json:"display_name" gorm:"column:display_name;not null"`
	DefaultDays     int       `json:"default_days" gorm:"column:default_days"`
	MinNoticeDays   int       `json:"min_notice_days" gorm:"column:min_notice_days"`
	MaxWorkingDays  int       `json:"max_working_days" gorm:"column:max_working_days"`
	RequiresBalance bool      `json:"requires_balance" gorm:"column:requires_balance"`
	Description     string    `json:"description"`
	IsActive        bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (LeavePolicy) TableName() string {
	return "leave_policies"
}

// Repository defines the data access methods for leave policies.
type Repository interface {
	GetAll() ([]*LeavePolicy, error)
	GetByType(leaveType string) (*LeavePolicy, error)
}
