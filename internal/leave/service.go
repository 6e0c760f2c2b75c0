package leave

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
)

// Service owns the leave request lifecycle. Every transition that reads a
// balance or a status before writing runs under the owning employee's lock,
// so concurrent requests for the same employee serialize instead of racing.
type Service struct {
	ds     Datastore
	cfg    internal.LeaveConfig
	logger *slog.Logger
	locks  *employeeLocks
	now    func() time.Time
}

func NewService(ds Datastore, cfg internal.LeaveConfig, logger *slog.Logger) *Service {
	return &Service{
		ds:     ds,
		cfg:    cfg,
		logger: logger,
		locks:  newEmployeeLocks(),
		now:    time.Now,
	}
}

// Submit validates and files a new pending leave request.
func (s *Service) Submit(dto SubmitLeaveDTO) (*SubmitLeaveResponse, error) {
	start, end, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(dto.EmployeeID)
	defer unlock()

	emp, err := s.ds.Employees().GetByID(dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	today := internal.Midnight(s.now())
	result := ValidateSubmission(emp, LeaveType(dto.LeaveType), start, end, dto.Reason, today, s.cfg)
	if !result.OK() {
		s.logger.Warn("leave submission rejected",
			"employee_id", dto.EmployeeID,
			"violations", result.Violations)
		return nil, internal.NewBusinessRuleError(
			"Leave request validation failed",
			internal.ErrCodeLeaveRuleViolation,
			result.Violations...)
	}

	conflicts, err := s.ds.Leaves().FindOverlapping(dto.EmployeeID, start, end, 0)
	if err != nil {
		s.logger.Error("overlap check failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewTransientError("failed to check overlapping requests", err)
	}
	if len(conflicts) > 0 {
		details := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			details = append(details, fmt.Sprintf("%s request #%d (%s to %s, %s)",
				c.LeaveType, c.ID,
				internal.FormatDate(c.StartDate), internal.FormatDate(c.EndDate),
				c.Status))
		}
		return nil, internal.NewBusinessRuleError(
			"Leave request overlaps with an existing request",
			internal.ErrCodeOverlappingRequest,
			details...)
	}

	req := &LeaveRequest{
		EmployeeID:    dto.EmployeeID,
		LeaveType:     LeaveType(dto.LeaveType),
		StartDate:     start,
		EndDate:       end,
		DaysRequested: result.WorkingDays,
		Reason:        dto.Reason,
		Status:        StatusPending,
	}
	if err := s.ds.Leaves().Create(req); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewTransientError("failed to create leave request", err)
	}

	s.logger.Info("leave request submitted",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"leave_type", req.LeaveType,
		"days", req.DaysRequested)

	return &SubmitLeaveResponse{Request: req, WorkingDays: result.WorkingDays}, nil
}

// Approve moves a pending request to approved and debits the balance in the
// same transaction. The balance is re-checked under the employee lock; the
// guarded ledger update is the last line of defense.
func (s *Service) Approve(requestID int64, dto ApproveDTO) (*DecisionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(req.EmployeeID)
	defer unlock()

	// Re-read under the lock; the status may have moved while we waited.
	req, err = s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if !req.CanBeApproved() {
		return nil, internal.NewBusinessRuleError(
			fmt.Sprintf("Only pending requests can be approved (current status: %s)", req.Status),
			internal.ErrCodeInvalidTransition)
	}

	if _, err := s.ds.Employees().GetByID(dto.ApprovedBy); err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrApproverNotFound
		}
		return nil, err
	}

	emp, err := s.ds.Employees().GetByID(req.EmployeeID)
	if err != nil {
		return nil, err
	}

	balanceType, affectsBalance := req.LeaveType.AffectsBalance()
	if affectsBalance && emp.Balance(balanceType) < req.DaysRequested {
		return nil, internal.NewBusinessRuleError(
			fmt.Sprintf("Insufficient %s leave balance: requested %d days, %d available",
				balanceType, req.DaysRequested, emp.Balance(balanceType)),
			internal.ErrCodeInsufficientBalance)
	}

	approvedAt := s.now()
	err = s.ds.Atomically(func(tx Datastore) error {
		if err := tx.Leaves().UpdateStatus(requestID, StatusApproved, &dto.ApprovedBy, &approvedAt, dto.Comments); err != nil {
			return err
		}
		if affectsBalance {
			return tx.Employees().AdjustBalance(req.EmployeeID, balanceType, req.DaysRequested, employee.OperationSubtract)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, employee.ErrInsufficientBalance) {
			return nil, internal.NewBusinessRuleError(
				fmt.Sprintf("Insufficient %s leave balance", balanceType),
				internal.ErrCodeInsufficientBalance)
		}
		s.logger.Error("approval transaction failed", "error", err, "request_id", requestID)
		return nil, internal.NewTransientError("failed to approve leave request", err)
	}

	updated, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	resp := &DecisionResponse{Request: updated}
	if affectsBalance {
		resp.BalanceDeducted = req.DaysRequested
		if fresh, err := s.ds.Employees().GetByID(req.EmployeeID); err == nil {
			remaining := fresh.Balance(balanceType)
			resp.RemainingBalance = &remaining
		}
	}

	s.logger.Info("leave request approved",
		"request_id", requestID,
		"approved_by", dto.ApprovedBy,
		"days_deducted", resp.BalanceDeducted)

	return resp, nil
}

// Reject moves a pending request to rejected. The comment requirement is
// checked before anything is read or written.
func (s *Service) Reject(requestID int64, dto RejectDTO) (*DecisionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(req.EmployeeID)
	defer unlock()

	req, err = s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if !req.CanBeRejected() {
		return nil, internal.NewBusinessRuleError(
			fmt.Sprintf("Only pending requests can be rejected (current status: %s)", req.Status),
			internal.ErrCodeInvalidTransition)
	}

	if _, err := s.ds.Employees().GetByID(dto.ApprovedBy); err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrApproverNotFound
		}
		return nil, err
	}

	rejectedAt := s.now()
	if err := s.ds.Leaves().UpdateStatus(requestID, StatusRejected, &dto.ApprovedBy, &rejectedAt, &dto.Comments); err != nil {
		s.logger.Error("rejection failed", "error", err, "request_id", requestID)
		return nil, internal.NewTransientError("failed to reject leave request", err)
	}

	updated, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave request rejected", "request_id", requestID, "rejected_by", dto.ApprovedBy)

	return &DecisionResponse{Request: updated}, nil
}

// Cancel lets the owner withdraw a pending or approved request before it
// starts. Cancelling an approved request credits the debited days back inside
// the same transaction that flips the status.
func (s *Service) Cancel(requestID int64, dto CancelDTO) (*DecisionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Acquire(req.EmployeeID)
	defer unlock()

	req, err = s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID != dto.EmployeeID {
		return nil, internal.NewForbiddenError(
			"Only the request owner can cancel a leave request",
			internal.ErrCodeNotRequestOwner)
	}
	if !req.CanBeCancelled() {
		return nil, internal.NewBusinessRuleError(
			fmt.Sprintf("Only pending or approved requests can be cancelled (current status: %s)", req.Status),
			internal.ErrCodeInvalidTransition)
	}

	today := internal.Midnight(s.now())
	if !req.StartDate.After(today) {
		return nil, internal.NewBusinessRuleError(
			"Cannot cancel a leave request that has already started",
			internal.ErrCodeLeaveAlreadyStarted)
	}

	wasApproved := req.Status == StatusApproved
	balanceType, affectsBalance := req.LeaveType.AffectsBalance()

	comments := req.Comments
	if dto.Reason != nil {
		comments = dto.Reason
	}

	err = s.ds.Atomically(func(tx Datastore) error {
		if err := tx.Leaves().UpdateStatus(requestID, StatusCancelled, req.ApprovedBy, req.ApprovedAt, comments); err != nil {
			return err
		}
		if wasApproved && affectsBalance {
			return tx.Employees().AdjustBalance(req.EmployeeID, balanceType, req.DaysRequested, employee.OperationAdd)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("cancellation transaction failed", "error", err, "request_id", requestID)
		return nil, internal.NewTransientError("failed to cancel leave request", err)
	}

	updated, err := s.ds.Leaves().GetByID(requestID)
	if err != nil {
		return nil, err
	}

	resp := &DecisionResponse{Request: updated}
	if wasApproved && affectsBalance {
		resp.BalanceRestored = req.DaysRequested
		if fresh, err := s.ds.Employees().GetByID(req.EmployeeID); err == nil {
			remaining := fresh.Balance(balanceType)
			resp.RemainingBalance = &remaining
		}
	}

	s.logger.Info("leave request cancelled",
		"request_id", requestID,
		"employee_id", dto.EmployeeID,
		"was_approved", wasApproved)

	return resp, nil
}

// GetRequest resolves a single request with employee and approver names.
func (s *Service) GetRequest(id int64) (*LeaveRequestResponse, error) {
	req, err := s.ds.Leaves().GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(req), nil
}

// ListRequests returns the filtered request listing for the admin view.
func (s *Service) ListRequests(filters ListFilters) ([]*LeaveRequestResponse, error) {
	reqs, err := s.ds.Leaves().List(filters)
	if err != nil {
		s.logger.Error("failed to list leave requests", "error", err)
		return nil, internal.NewTransientError("failed to list leave requests", err)
	}
	out := make([]*LeaveRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, s.decorate(r))
	}
	return out, nil
}

// EmployeeRequests returns one employee's request history, optionally
// narrowed to a status.
func (s *Service) EmployeeRequests(employeeID int64, status Status) ([]*LeaveRequest, error) {
	if _, err := s.ds.Employees().GetByID(employeeID); err != nil {
		return nil, err
	}
	reqs, err := s.ds.Leaves().GetByEmployee(employeeID, status)
	if err != nil {
		s.logger.Error("failed to load employee requests", "error", err, "employee_id", employeeID)
		return nil, internal.NewTransientError("failed to load leave requests", err)
	}
	return reqs, nil
}

// StatsOverview aggregates the year's requests plus the live pending queue
// and the next week of approved leave.
func (s *Service) StatsOverview(year int) (*StatsOverviewResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}

	breakdown, err := s.ds.Leaves().StatsByYear(year)
	if err != nil {
		s.logger.Error("failed to load leave stats", "error", err, "year", year)
		return nil, internal.NewTransientError("failed to load leave statistics", err)
	}

	pending, err := s.ds.Leaves().CountByStatus(StatusPending)
	if err != nil {
		return nil, internal.NewTransientError("failed to count pending requests", err)
	}

	upcoming, err := s.ds.Leaves().UpcomingApproved(internal.Midnight(s.now()), 7)
	if err != nil {
		return nil, internal.NewTransientError("failed to load upcoming leaves", err)
	}

	return &StatsOverviewResponse{
		Year:            year,
		Breakdown:       breakdown,
		PendingRequests: pending,
		UpcomingLeaves:  upcoming,
	}, nil
}

func (s *Service) decorate(req *LeaveRequest) *LeaveRequestResponse {
	resp := &LeaveRequestResponse{LeaveRequest: req}
	if emp, err := s.ds.Employees().GetByID(req.EmployeeID); err == nil {
		resp.EmployeeName = emp.Name
		resp.Department = emp.Department
	}
	if req.ApprovedBy != nil {
		if approver, err := s.ds.Employees().GetByID(*req.ApprovedBy); err == nil {
			resp.ApprovedByName = approver.Name
		}
	}
	return resp
}
