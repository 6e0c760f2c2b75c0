package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
)

const (
	minReasonLength = 5
	maxReasonLength = 500
)

// ValidationResult carries the derived working-day count alongside every rule
// the submission breaks. An empty Violations slice means the request is
// acceptable.
type ValidationResult struct {
	WorkingDays int
	Violations  []string
}

func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// ValidateSubmission runs every submission rule and collects the full set of
// violations rather than stopping at the first. Date inputs must already be
// normalized to midnight; today is the caller's notion of the current date.
//
// Emergency leave skips the balance check on purpose; it has no entitlement
// pool to draw from.
func ValidateSubmission(emp *employee.Employee, leaveType LeaveType, start, end time.Time, reason string, today time.Time, cfg internal.LeaveConfig) ValidationResult {
	var violations []string

	if end.Before(start) {
		violations = append(violations, "End date cannot be before start date")
	}
	if !start.After(today) {
		violations = append(violations, "Leave must start on a future date")
	}
	if leaveType == TypeAnnual && start.Before(today.AddDate(0, 0, cfg.MinNoticeDaysAnnual)) {
		violations = append(violations, fmt.Sprintf("Annual leave requires at least %d days advance notice", cfg.MinNoticeDaysAnnual))
	}

	workingDays := WorkingDays(start, end)
	if !end.Before(start) {
		if workingDays == 0 {
			violations = append(violations, "Leave request must cover at least one working day")
		} else if workingDays > cfg.MaxWorkingDaysPerRequest {
			violations = append(violations, fmt.Sprintf("Leave request cannot exceed %d working days", cfg.MaxWorkingDaysPerRequest))
		}
	}

	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < minReasonLength {
		violations = append(violations, fmt.Sprintf("Reason must be at least %d characters", minReasonLength))
	} else if len(trimmed) > maxReasonLength {
		violations = append(violations, fmt.Sprintf("Reason cannot exceed %d characters", maxReasonLength))
	}

	if start.Before(internal.Midnight(emp.JoiningDate)) {
		violations = append(violations, "Leave cannot start before the joining date")
	}

	if balanceType, ok := leaveType.AffectsBalance(); ok && workingDays > 0 {
		if available := emp.Balance(balanceType); workingDays > available {
			violations = append(violations, fmt.Sprintf(
				"Insufficient %s leave balance: requested %d days, %d available",
				balanceType, workingDays, available))
		}
	}

	return ValidationResult{WorkingDays: workingDays, Violations: violations}
}
