package leave_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
	"github.com/symplora/leave-management/internal/leave"
)

// Mock repositories wired through a mock datastore for testing

type mockLeaveRepository struct {
	requests          map[int64]*leave.LeaveRequest
	createError       error
	getError          error
	updateStatusError error
	overlapError      error
	nextID            int64
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{
		requests: make(map[int64]*leave.LeaveRequest),
		nextID:   1,
	}
}

func (m *mockLeaveRepository) Create(req *leave.LeaveRequest) error {
	if m.createError != nil {
		return m.createError
	}
	req.ID = m.nextID
	m.nextID++
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockLeaveRepository) GetByID(id int64) (*leave.LeaveRequest, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	req, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrLeaveNotFound
	}
	copied := *req
	return &copied, nil
}

func (m *mockLeaveRepository) GetByEmployee(employeeID int64, status leave.Status) ([]*leave.LeaveRequest, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *mockLeaveRepository) List(filters leave.ListFilters) ([]*leave.LeaveRequest, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if filters.Status != "" && req.Status != filters.Status {
			continue
		}
		if filters.LeaveType != "" && req.LeaveType != filters.LeaveType {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (m *mockLeaveRepository) FindOverlapping(employeeID int64, start, end time.Time, excludeID int64) ([]*leave.LeaveRequest, error) {
	if m.overlapError != nil {
		return nil, m.overlapError
	}
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.EmployeeID != employeeID || req.ID == excludeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if leave.Overlaps(req.StartDate, req.EndDate, start, end) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) UpdateStatus(id int64, status leave.Status, approvedBy *int64, approvedAt *time.Time, comments *string) error {
	if m.updateStatusError != nil {
		return m.updateStatusError
	}
	req, exists := m.requests[id]
	if !exists {
		return internal.ErrLeaveNotFound
	}
	req.Status = status
	req.ApprovedBy = approvedBy
	req.ApprovedAt = approvedAt
	req.Comments = comments
	req.UpdatedAt = time.Now()
	return nil
}

func (m *mockLeaveRepository) StatsByYear(year int) ([]leave.StatRow, error) {
	return nil, nil
}

func (m *mockLeaveRepository) CountByStatus(status leave.Status) (int64, error) {
	var count int64
	for _, req := range m.requests {
		if req.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockLeaveRepository) UpcomingApproved(from time.Time, days int) ([]*leave.LeaveRequest, error) {
	return nil, nil
}

type mockLedger struct {
	employees   map[int64]*employee.Employee
	getError    error
	adjustError error
}

func newMockLedger() *mockLedger {
	return &mockLedger{employees: make(map[int64]*employee.Employee)}
}

func (m *mockLedger) Create(emp *employee.Employee) error {
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockLedger) GetByID(id int64) (*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	emp, exists := m.employees[id]
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	copied := *emp
	return &copied, nil
}

func (m *mockLedger) GetByEmail(email string) (*employee.Employee, error) {
	return nil, internal.ErrEmployeeNotFound
}

func (m *mockLedger) GetAll() ([]*employee.Employee, error) {
	return nil, nil
}

func (m *mockLedger) DepartmentStats() ([]employee.DepartmentStat, error) {
	return nil, nil
}

func (m *mockLedger) AdjustBalance(employeeID int64, balanceType employee.BalanceType, days int, op employee.BalanceOperation) error {
	if m.adjustError != nil {
		return m.adjustError
	}
	emp, exists := m.employees[employeeID]
	if !exists {
		return internal.ErrEmployeeNotFound
	}
	delta := days
	if op == employee.OperationSubtract {
		if emp.Balance(balanceType) < days {
			return employee.ErrInsufficientBalance
		}
		delta = -days
	}
	if balanceType == employee.BalanceSick {
		emp.SickLeaveBalance += delta
	} else {
		emp.AnnualLeaveBalance += delta
	}
	return nil
}

type mockDatastore struct {
	leaves      *mockLeaveRepository
	ledger      *mockLedger
	atomicError error
}

func newMockDatastore() *mockDatastore {
	return &mockDatastore{
		leaves: newMockLeaveRepository(),
		ledger: newMockLedger(),
	}
}

func (m *mockDatastore) Leaves() leave.Repository {
	return m.leaves
}

func (m *mockDatastore) Employees() employee.Repository {
	return m.ledger
}

func (m *mockDatastore) Atomically(fn func(ds leave.Datastore) error) error {
	if m.atomicError != nil {
		return m.atomicError
	}
	return fn(m)
}

var _ = Describe("LeaveService", func() {
	var (
		service *leave.Service
		ds      *mockDatastore
		cfg     internal.LeaveConfig

		startDate time.Time
		endDate   time.Time
	)

	const (
		employeeID = int64(1)
		approverID = int64(2)
	)

	futureWeekday := func(daysAhead int) time.Time {
		d := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysAhead)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		return d
	}

	BeforeEach(func() {
		ds = newMockDatastore()
		cfg = internal.LeaveConfig{
			DefaultAnnualEntitlement: 24,
			DefaultSickEntitlement:   12,
			MinNoticeDaysAnnual:      3,
			MaxWorkingDaysPerRequest: 30,
		}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leave.NewService(ds, cfg, lg)

		ds.ledger.Create(&employee.Employee{
			ID:                 employeeID,
			Name:               "Rajesh Kumar",
			Department:         "Engineering",
			JoiningDate:        day(2023, time.January, 16),
			AnnualLeaveBalance: 10,
			SickLeaveBalance:   5,
			IsActive:           true,
		})
		ds.ledger.Create(&employee.Employee{
			ID:                 approverID,
			Name:               "Priya Sharma",
			Department:         "HR",
			JoiningDate:        day(2023, time.March, 1),
			AnnualLeaveBalance: 24,
			SickLeaveBalance:   12,
			IsActive:           true,
		})

		startDate = futureWeekday(10)
		endDate = startDate.AddDate(0, 0, 2)
	})

	submitDTO := func() leave.SubmitLeaveDTO {
		return leave.SubmitLeaveDTO{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  internal.FormatDate(startDate),
			EndDate:    internal.FormatDate(endDate),
			Reason:     "family vacation",
		}
	}

	Describe("Submit", func() {
		Context("with a valid request", func() {
			It("creates a pending request with the derived working days", func() {
				resp, err := service.Submit(submitDTO())

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Request.Status).To(Equal(leave.StatusPending))
				Expect(resp.Request.ID).To(BeNumerically(">", 0))
				Expect(resp.WorkingDays).To(Equal(leave.WorkingDays(startDate, endDate)))
			})

			It("does not touch the balance at submission time", func() {
				_, err := service.Submit(submitDTO())
				Expect(err).ToNot(HaveOccurred())

				emp, _ := ds.ledger.GetByID(employeeID)
				Expect(emp.AnnualLeaveBalance).To(Equal(10))
			})
		})

		Context("when the employee does not exist", func() {
			It("returns not found", func() {
				dto := submitDTO()
				dto.EmployeeID = 999

				_, err := service.Submit(dto)

				Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
			})
		})

		Context("when submission rules are broken", func() {
			It("returns every violation as a business rule error", func() {
				dto := submitDTO()
				dto.Reason = "out"
				dto.LeaveType = "annual"
				yesterday := time.Now().UTC().AddDate(0, 0, -1)
				dto.StartDate = internal.FormatDate(yesterday)
				dto.EndDate = internal.FormatDate(yesterday)

				_, err := service.Submit(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeLeaveRuleViolation))
				Expect(appErr.StatusCode).To(Equal(422))
			})

			It("rejects an unknown leave type before touching the repository", func() {
				dto := submitDTO()
				dto.LeaveType = "sabbatical"

				_, err := service.Submit(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidLeaveType))
			})
		})

		Context("when an overlapping request exists", func() {
			It("rejects the submission", func() {
				_, err := service.Submit(submitDTO())
				Expect(err).ToNot(HaveOccurred())

				// Second request sharing the first one's end day.
				dto := submitDTO()
				dto.LeaveType = "sick"
				dto.Reason = "stomach flu"
				dto.StartDate = internal.FormatDate(endDate)
				dto.EndDate = internal.FormatDate(endDate.AddDate(0, 0, 1))

				_, err = service.Submit(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeOverlappingRequest))
			})

			It("ignores rejected and cancelled requests when checking", func() {
				resp, err := service.Submit(submitDTO())
				Expect(err).ToNot(HaveOccurred())

				_, err = service.Reject(resp.Request.ID, leave.RejectDTO{
					ApprovedBy: approverID,
					Comments:   "coverage gap that week",
				})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.Submit(submitDTO())
				Expect(err).ToNot(HaveOccurred())
			})
		})
	})

	Describe("Approve", func() {
		var requestID int64

		BeforeEach(func() {
			resp, err := service.Submit(submitDTO())
			Expect(err).ToNot(HaveOccurred())
			requestID = resp.Request.ID
		})

		Context("with a pending request", func() {
			It("approves and debits the balance atomically", func() {
				days := leave.WorkingDays(startDate, endDate)

				resp, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})

				Expect(err).ToNot(HaveOccurred())
				Expect(resp.Request.Status).To(Equal(leave.StatusApproved))
				Expect(resp.Request.ApprovedBy).ToNot(BeNil())
				Expect(*resp.Request.ApprovedBy).To(Equal(approverID))
				Expect(resp.BalanceDeducted).To(Equal(days))

				emp, _ := ds.ledger.GetByID(employeeID)
				Expect(emp.AnnualLeaveBalance).To(Equal(10 - days))
			})
		})

		Context("with a request that is not pending", func() {
			It("refuses a second approval", func() {
				_, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
			})
		})

		Context("when the approver does not exist", func() {
			It("returns approver not found and leaves the request pending", func() {
				_, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: 999})

				Expect(errors.Is(err, internal.ErrApproverNotFound)).To(BeTrue())

				req, _ := ds.leaves.GetByID(requestID)
				Expect(req.Status).To(Equal(leave.StatusPending))
			})
		})

		Context("when the balance shrank after submission", func() {
			It("refuses and mutates nothing", func() {
				emp := ds.ledger.employees[employeeID]
				emp.AnnualLeaveBalance = 1

				_, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientBalance))

				req, _ := ds.leaves.GetByID(requestID)
				Expect(req.Status).To(Equal(leave.StatusPending))
				Expect(emp.AnnualLeaveBalance).To(Equal(1))
			})
		})

		Context("with a missing request", func() {
			It("returns not found", func() {
				_, err := service.Approve(999, leave.ApproveDTO{ApprovedBy: approverID})
				Expect(errors.Is(err, internal.ErrLeaveNotFound)).To(BeTrue())
			})
		})

		Context("with an emergency request", func() {
			It("approves without touching any balance", func() {
				dto := submitDTO()
				dto.LeaveType = "emergency"
				dto.Reason = "house flooding"
				dto.StartDate = internal.FormatDate(startDate.AddDate(0, 1, 0))
				dto.EndDate = dto.StartDate
				resp, err := service.Submit(dto)
				Expect(err).ToNot(HaveOccurred())

				_, err = service.Approve(resp.Request.ID, leave.ApproveDTO{ApprovedBy: approverID})
				Expect(err).ToNot(HaveOccurred())

				emp, _ := ds.ledger.GetByID(employeeID)
				Expect(emp.AnnualLeaveBalance).To(Equal(10))
				Expect(emp.SickLeaveBalance).To(Equal(5))
			})
		})
	})

	Describe("Reject", func() {
		var requestID int64

		BeforeEach(func() {
			resp, err := service.Submit(submitDTO())
			Expect(err).ToNot(HaveOccurred())
			requestID = resp.Request.ID
		})

		It("rejects a pending request with substantive comments", func() {
			resp, err := service.Reject(requestID, leave.RejectDTO{
				ApprovedBy: approverID,
				Comments:   "team is at minimum staffing that week",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Request.Status).To(Equal(leave.StatusRejected))
			Expect(resp.Request.Comments).ToNot(BeNil())
		})

		It("refuses comments shorter than ten characters before any mutation", func() {
			_, err := service.Reject(requestID, leave.RejectDTO{
				ApprovedBy: approverID,
				Comments:   "no",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCommentsRequired))

			req, _ := ds.leaves.GetByID(requestID)
			Expect(req.Status).To(Equal(leave.StatusPending))
		})

		It("never touches the balance", func() {
			_, err := service.Reject(requestID, leave.RejectDTO{
				ApprovedBy: approverID,
				Comments:   "coverage gap that week",
			})
			Expect(err).ToNot(HaveOccurred())

			emp, _ := ds.ledger.GetByID(employeeID)
			Expect(emp.AnnualLeaveBalance).To(Equal(10))
		})

		It("refuses to reject an approved request", func() {
			_, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(requestID, leave.RejectDTO{
				ApprovedBy: approverID,
				Comments:   "changed my mind about this",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})
	})

	Describe("Cancel", func() {
		var requestID int64

		BeforeEach(func() {
			resp, err := service.Submit(submitDTO())
			Expect(err).ToNot(HaveOccurred())
			requestID = resp.Request.ID
		})

		It("cancels a pending request without touching the balance", func() {
			resp, err := service.Cancel(requestID, leave.CancelDTO{EmployeeID: employeeID})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Request.Status).To(Equal(leave.StatusCancelled))
			Expect(resp.BalanceRestored).To(Equal(0))

			emp, _ := ds.ledger.GetByID(employeeID)
			Expect(emp.AnnualLeaveBalance).To(Equal(10))
		})

		It("credits the balance back when cancelling an approved request", func() {
			days := leave.WorkingDays(startDate, endDate)
			_, err := service.Approve(requestID, leave.ApproveDTO{ApprovedBy: approverID})
			Expect(err).ToNot(HaveOccurred())

			resp, err := service.Cancel(requestID, leave.CancelDTO{EmployeeID: employeeID})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.BalanceRestored).To(Equal(days))

			// Approve-then-cancel leaves the balance exactly where it began.
			emp, _ := ds.ledger.GetByID(employeeID)
			Expect(emp.AnnualLeaveBalance).To(Equal(10))
		})

		It("refuses a caller who is not the owner", func() {
			_, err := service.Cancel(requestID, leave.CancelDTO{EmployeeID: approverID})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotRequestOwner))
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("refuses to cancel a rejected request", func() {
			_, err := service.Reject(requestID, leave.RejectDTO{
				ApprovedBy: approverID,
				Comments:   "coverage gap that week",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Cancel(requestID, leave.CancelDTO{EmployeeID: employeeID})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidTransition))
		})

		It("refuses to cancel leave that has already started", func() {
			req := ds.leaves.requests[requestID]
			req.StartDate = time.Now().UTC().AddDate(0, 0, -1)

			_, err := service.Cancel(requestID, leave.CancelDTO{EmployeeID: employeeID})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeLeaveAlreadyStarted))
		})
	})

	Describe("EmployeeRequests", func() {
		It("returns not found for an unknown employee", func() {
			_, err := service.EmployeeRequests(999, "")
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})

		It("filters by status", func() {
			resp, err := service.Submit(submitDTO())
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Approve(resp.Request.ID, leave.ApproveDTO{ApprovedBy: approverID})
			Expect(err).ToNot(HaveOccurred())

			approved, err := service.EmployeeRequests(employeeID, leave.StatusApproved)
			Expect(err).ToNot(HaveOccurred())
			Expect(approved).To(HaveLen(1))

			pending, err := service.EmployeeRequests(employeeID, leave.StatusPending)
			Expect(err).ToNot(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})
	})
})
