package leave

import (
	"time"

	"github.com/symplora/leave-management/internal/employee"
)

// Status is the leave request lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// LeaveType is the closed set of request categories. Emergency leave has no
// backing balance and is deliberately unlimited; see AffectsBalance.
type LeaveType string

const (
	TypeAnnual    LeaveType = "annual"
	TypeSick      LeaveType = "sick"
	TypeEmergency LeaveType = "emergency"
)

func (t LeaveType) Valid() bool {
	return t == TypeAnnual || t == TypeSick || t == TypeEmergency
}

// AffectsBalance reports whether approving/cancelling a request of this type
// moves a balance, and which one.
func (t LeaveType) AffectsBalance() (employee.BalanceType, bool) {
	switch t {
	case TypeAnnual:
		return employee.BalanceAnnual, true
	case TypeSick:
		return employee.BalanceSick, true
	default:
		return "", false
	}
}

// LeaveRequest is the request entity. DaysRequested is derived from the date
// range at creation and never recomputed afterwards.
type LeaveRequest struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	EmployeeID    int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	LeaveType     LeaveType  `json:"leave_type" gorm:"column:leave_type;not null"`
	StartDate     time.Time  `json:"start_date" gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time  `json:"end_date" gorm:"column:end_date;type:date;not null"`
	DaysRequested int        `json:"days_requested" gorm:"column:days_requested;not null"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status" gorm:"default:pending"`
	ApprovedBy    *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	Comments      *string    `json:"comments,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (lr *LeaveRequest) CanBeApproved() bool {
	return lr.Status == StatusPending
}

func (lr *LeaveRequest) CanBeRejected() bool {
	return lr.Status == StatusPending
}

// CanBeCancelled: pending or approved only; rejected and cancelled requests
// are terminal.
func (lr *LeaveRequest) CanBeCancelled() bool {
	return lr.Status == StatusPending || lr.Status == StatusApproved
}

// ListFilters narrows the request listing. Zero values mean "no filter".
type ListFilters struct {
	Status     Status
	Department string
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time
}

// StatRow is one aggregate bucket of the stats overview.
type StatRow struct {
	Department      string    `json:"department"`
	LeaveType       LeaveType `json:"leave_type"`
	Status          Status    `json:"status"`
	RequestCount    int64     `json:"request_count"`
	TotalDays       int64     `json:"total_days"`
	AvgDaysPerEntry float64   `json:"avg_days_per_request"`
}

// Repository defines the data access methods for leave requests.
type Repository interface {
	Create(req *LeaveRequest) error
	GetByID(id int64) (*LeaveRequest, error)
	GetByEmployee(employeeID int64, status Status) ([]*LeaveRequest, error)
	List(filters ListFilters) ([]*LeaveRequest, error)
	// FindOverlapping returns same-employee pending/approved requests whose
	// inclusive date range intersects [start,end]. excludeID skips one
	// request (0 means none).
	FindOverlapping(employeeID int64, start, end time.Time, excludeID int64) ([]*LeaveRequest, error)
	UpdateStatus(id int64, status Status, approvedBy *int64, approvedAt *time.Time, comments *string) error
	StatsByYear(year int) ([]StatRow, error)
	CountByStatus(status Status) (int64, error)
	UpcomingApproved(from time.Time, days int) ([]*LeaveRequest, error)
}

// Datastore bundles the repositories the state machine touches and runs them
// atomically when a transition must move a balance together with a status.
type Datastore interface {
	Leaves() Repository
	Employees() employee.Repository
	// Atomically runs fn against transaction-scoped repositories; any error
	// rolls back every write made inside fn.
	Atomically(fn func(ds Datastore) error) error
}
