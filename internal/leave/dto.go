package leave

import (
	"strings"
	"time"

	"github.com/symplora/leave-management/internal"
)

const minDecisionCommentLength = 10

// SubmitLeaveDTO is the leave application payload.
type SubmitLeaveDTO struct {
	EmployeeID int64  `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// Validate checks payload shape only. The submission rules that need the
// employee record run in the service.
func (dto *SubmitLeaveDTO) Validate() (start, end time.Time, err error) {
	if dto.EmployeeID <= 0 {
		return start, end, internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	dto.LeaveType = strings.ToLower(strings.TrimSpace(dto.LeaveType))
	if !LeaveType(dto.LeaveType).Valid() {
		return start, end, internal.NewValidationError(
			`Leave type must be one of: "annual", "sick", "emergency"`,
			internal.ErrCodeInvalidLeaveType)
	}
	start, err = internal.ParseDate(dto.StartDate)
	if err != nil {
		return start, end, internal.NewValidationError("start_date: "+err.Error(), internal.ErrCodeInvalidDate)
	}
	end, err = internal.ParseDate(dto.EndDate)
	if err != nil {
		return start, end, internal.NewValidationError("end_date: "+err.Error(), internal.ErrCodeInvalidDate)
	}
	return start, end, nil
}

// ApproveDTO carries the approver identity and an optional note.
type ApproveDTO struct {
	ApprovedBy int64   `json:"approved_by"`
	Comments   *string `json:"comments,omitempty"`
}

func (dto *ApproveDTO) Validate() error {
	if dto.ApprovedBy <= 0 {
		return internal.NewValidationError("approved_by is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RejectDTO requires a substantive comment so the employee learns why.
type RejectDTO struct {
	ApprovedBy int64  `json:"approved_by"`
	Comments   string `json:"comments"`
}

func (dto *RejectDTO) Validate() error {
	if dto.ApprovedBy <= 0 {
		return internal.NewValidationError("approved_by is required", internal.ErrCodeValidationFailed)
	}
	if len(strings.TrimSpace(dto.Comments)) < minDecisionCommentLength {
		return internal.NewBusinessRuleError(
			"Rejection comments must be at least 10 characters",
			internal.ErrCodeCommentsRequired)
	}
	return nil
}

// CancelDTO identifies the requesting owner; only the owner may cancel.
type CancelDTO struct {
	EmployeeID int64   `json:"employee_id"`
	Reason     *string `json:"reason,omitempty"`
}

func (dto *CancelDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationError("employee_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// LeaveRequestResponse decorates the stored request with resolved names for
// list and detail views.
type LeaveRequestResponse struct {
	*LeaveRequest
	EmployeeName   string `json:"employee_name,omitempty"`
	Department     string `json:"department,omitempty"`
	ApprovedByName string `json:"approved_by_name,omitempty"`
}

// SubmitLeaveResponse echoes the created request with the derived duration.
type SubmitLeaveResponse struct {
	Request     *LeaveRequest `json:"leave_request"`
	WorkingDays int           `json:"working_days"`
}

// DecisionResponse is returned by approve, reject and cancel.
type DecisionResponse struct {
	Request          *LeaveRequest `json:"leave_request"`
	BalanceDeducted  int           `json:"balance_deducted,omitempty"`
	BalanceRestored  int           `json:"balance_restored,omitempty"`
	RemainingBalance *int          `json:"remaining_balance,omitempty"`
}

// StatsOverviewResponse is the admin dashboard aggregate.
type StatsOverviewResponse struct {
	Year            int             `json:"year"`
	Breakdown       []StatRow       `json:"breakdown"`
	PendingRequests int64           `json:"pending_requests"`
	UpcomingLeaves  []*LeaveRequest `json:"upcoming_leaves"`
}
