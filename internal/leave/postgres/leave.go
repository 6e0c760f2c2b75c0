package postgres

import (
	"errors"
	"time"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/leave"
	"gorm.io/gorm"
)

// LeaveRepository implements the leave.Repository interface using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(req *leave.LeaveRequest) error {
	return r.db.Create(req).Error
}

func (r *LeaveRepository) GetByID(id int64) (*leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := r.db.First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *LeaveRepository) GetByEmployee(employeeID int64, status leave.Status) ([]*leave.LeaveRequest, error) {
	query := r.db.Where("employee_id = ?", employeeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reqs []*leave.LeaveRequest
	err := query.Order("start_date DESC").Find(&reqs).Error
	return reqs, err
}

func (r *LeaveRepository) List(filters leave.ListFilters) ([]*leave.LeaveRequest, error) {
	query := r.db.Model(&leave.LeaveRequest{})

	if filters.Status != "" {
		query = query.Where("leave_requests.status = ?", filters.Status)
	}
	if filters.LeaveType != "" {
		query = query.Where("leave_requests.leave_type = ?", filters.LeaveType)
	}
	if filters.Department != "" {
		query = query.
			Joins("JOIN employees ON employees.id = leave_requests.employee_id").
			Where("employees.department = ?", filters.Department)
	}
	if !filters.StartDate.IsZero() {
		query = query.Where("leave_requests.start_date >= ?", filters.StartDate)
	}
	if !filters.EndDate.IsZero() {
		query = query.Where("leave_requests.end_date <= ?", filters.EndDate)
	}

	var reqs []*leave.LeaveRequest
	err := query.Order("leave_requests.created_at DESC").Find(&reqs).Error
	return reqs, err
}

// FindOverlapping matches any pending or approved request whose inclusive
// range touches [start, end]: the existing range covers either endpoint, or
// sits entirely inside the candidate range.
func (r *LeaveRepository) FindOverlapping(employeeID int64, start, end time.Time, excludeID int64) ([]*leave.LeaveRequest, error) {
	query := r.db.
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []leave.Status{leave.StatusPending, leave.StatusApproved}).
		Where("(start_date <= ? AND end_date >= ?) OR (start_date <= ? AND end_date >= ?) OR (start_date >= ? AND end_date <= ?)",
			start, start, end, end, start, end)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var reqs []*leave.LeaveRequest
	err := query.Order("start_date ASC").Find(&reqs).Error
	return reqs, err
}

func (r *LeaveRepository) UpdateStatus(id int64, status leave.Status, approvedBy *int64, approvedAt *time.Time, comments *string) error {
	tx := r.db.Model(&leave.LeaveRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": approvedBy,
			"approved_at": approvedAt,
			"comments":    comments,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return internal.ErrLeaveNotFound
	}
	return nil
}

// StatsByYear buckets the year's requests by department, type and status.
// The year window is expressed as a date range so the query stays portable
// across dialects.
func (r *LeaveRepository) StatsByYear(year int) ([]leave.StatRow, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var rows []leave.StatRow
	err := r.db.Model(&leave.LeaveRequest{}).
		Select(`employees.department,
			leave_requests.leave_type,
			leave_requests.status,
			COUNT(*) as request_count,
			SUM(leave_requests.days_requested) as total_days,
			AVG(leave_requests.days_requested) as avg_days_per_entry`).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("leave_requests.start_date >= ? AND leave_requests.start_date < ?", yearStart, yearEnd).
		Group("employees.department, leave_requests.leave_type, leave_requests.status").
		Order("employees.department ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *LeaveRepository) CountByStatus(status leave.Status) (int64, error) {
	var count int64
	err := r.db.Model(&leave.LeaveRequest{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *LeaveRepository) UpcomingApproved(from time.Time, days int) ([]*leave.LeaveRequest, error) {
	var reqs []*leave.LeaveRequest
	err := r.db.
		Where("status = ?", leave.StatusApproved).
		Where("start_date >= ? AND start_date < ?", from, from.AddDate(0, 0, days)).
		Order("start_date ASC").
		Find(&reqs).Error
	return reqs, err
}
