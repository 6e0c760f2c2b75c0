package leave_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
	"github.com/symplora/leave-management/internal/leave"
)

var _ = Describe("ValidateSubmission", func() {
	var (
		emp   *employee.Employee
		cfg   internal.LeaveConfig
		today time.Time
	)

	BeforeEach(func() {
		// 2025-09-01 is a Monday.
		today = day(2025, time.September, 1)
		cfg = internal.LeaveConfig{
			DefaultAnnualEntitlement: 24,
			DefaultSickEntitlement:   12,
			MinNoticeDaysAnnual:      3,
			MaxWorkingDaysPerRequest: 30,
		}
		emp = &employee.Employee{
			ID:                 1,
			Name:               "Rajesh Kumar",
			JoiningDate:        day(2024, time.January, 1),
			AnnualLeaveBalance: 10,
			SickLeaveBalance:   2,
		}
	})

	Context("with a valid annual request", func() {
		It("passes and reports the working-day count", func() {
			result := leave.ValidateSubmission(emp, leave.TypeAnnual,
				day(2025, time.September, 8), day(2025, time.September, 10),
				"family vacation", today, cfg)

			Expect(result.OK()).To(BeTrue())
			Expect(result.WorkingDays).To(Equal(3))
		})
	})

	Context("date rules", func() {
		It("rejects a request starting today", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				today, today, "stomach flu", today, cfg)

			Expect(result.Violations).To(ContainElement("Leave must start on a future date"))
		})

		It("rejects an end date before the start date", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 10), day(2025, time.September, 8),
				"stomach flu", today, cfg)

			Expect(result.Violations).To(ContainElement("End date cannot be before start date"))
		})

		It("rejects annual leave with less than three days notice", func() {
			result := leave.ValidateSubmission(emp, leave.TypeAnnual,
				day(2025, time.September, 3), day(2025, time.September, 3),
				"family vacation", today, cfg)

			Expect(result.Violations).To(ContainElement("Annual leave requires at least 3 days advance notice"))
		})

		It("allows sick leave on one day notice", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 2), day(2025, time.September, 2),
				"stomach flu", today, cfg)

			Expect(result.OK()).To(BeTrue())
		})

		It("rejects a weekend-only range", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 6), day(2025, time.September, 7),
				"stomach flu", today, cfg)

			Expect(result.Violations).To(ContainElement("Leave request must cover at least one working day"))
		})

		It("rejects more than 30 working days", func() {
			result := leave.ValidateSubmission(emp, leave.TypeEmergency,
				day(2025, time.September, 8), day(2025, time.October, 20),
				"extended family emergency", today, cfg)

			Expect(result.Violations).To(ContainElement("Leave request cannot exceed 30 working days"))
		})

		It("rejects a start before the joining date", func() {
			emp.JoiningDate = day(2025, time.December, 1)

			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 8), day(2025, time.September, 8),
				"stomach flu", today, cfg)

			Expect(result.Violations).To(ContainElement("Leave cannot start before the joining date"))
		})
	})

	Context("reason rules", func() {
		It("rejects a reason shorter than five characters", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 2), day(2025, time.September, 2),
				"ill", today, cfg)

			Expect(result.Violations).To(ContainElement("Reason must be at least 5 characters"))
		})

		It("ignores surrounding whitespace when measuring", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 2), day(2025, time.September, 2),
				"   flu   ", today, cfg)

			Expect(result.Violations).To(ContainElement("Reason must be at least 5 characters"))
		})
	})

	Context("balance rules", func() {
		It("rejects an annual request beyond the available balance", func() {
			// Sep 8 through Sep 22 spans 11 working days; only 10 available.
			result := leave.ValidateSubmission(emp, leave.TypeAnnual,
				day(2025, time.September, 8), day(2025, time.September, 22),
				"family vacation", today, cfg)

			Expect(result.Violations).To(ContainElement(
				"Insufficient annual leave balance: requested 11 days, 10 available"))
		})

		It("rejects a sick request beyond the available balance", func() {
			result := leave.ValidateSubmission(emp, leave.TypeSick,
				day(2025, time.September, 2), day(2025, time.September, 4),
				"stomach flu", today, cfg)

			Expect(result.Violations).To(ContainElement(
				"Insufficient sick leave balance: requested 3 days, 2 available"))
		})

		It("never applies a balance check to emergency leave", func() {
			emp.AnnualLeaveBalance = 0
			emp.SickLeaveBalance = 0

			result := leave.ValidateSubmission(emp, leave.TypeEmergency,
				day(2025, time.September, 2), day(2025, time.September, 4),
				"house flooding", today, cfg)

			Expect(result.OK()).To(BeTrue())
			Expect(result.WorkingDays).To(Equal(3))
		})
	})

	Context("with several broken rules at once", func() {
		It("collects every violation instead of stopping at the first", func() {
			result := leave.ValidateSubmission(emp, leave.TypeAnnual,
				day(2025, time.September, 2), day(2025, time.September, 22),
				"out", today, cfg)

			Expect(len(result.Violations)).To(BeNumerically(">=", 3))
		})
	})
})
