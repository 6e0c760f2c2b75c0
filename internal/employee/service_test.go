package employee_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/employee"
)

// Mock repository for testing
type mockEmployeeRepository struct {
	employees          map[int64]*employee.Employee
	employeesByEmail   map[string]*employee.Employee
	createError        error
	getError           error
	adjustBalanceError error
	nextID             int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees:        make(map[int64]*employee.Employee),
		employeesByEmail: make(map[string]*employee.Employee),
		nextID:           1,
	}
}

func (m *mockEmployeeRepository) Create(emp *employee.Employee) error {
	if m.createError != nil {
		return m.createError
	}
	emp.ID = m.nextID
	m.nextID++
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()
	m.employees[emp.ID] = emp
	m.employeesByEmail[emp.Email] = emp
	return nil
}

func (m *mockEmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	emp, exists := m.employees[id]
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *mockEmployeeRepository) GetByEmail(email string) (*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	emp, exists := m.employeesByEmail[email]
	if !exists {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *mockEmployeeRepository) GetAll() ([]*employee.Employee, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	all := make([]*employee.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		all = append(all, emp)
	}
	return all, nil
}

func (m *mockEmployeeRepository) DepartmentStats() ([]employee.DepartmentStat, error) {
	return nil, nil
}

func (m *mockEmployeeRepository) AdjustBalance(employeeID int64, balanceType employee.BalanceType, days int, op employee.BalanceOperation) error {
	if m.adjustBalanceError != nil {
		return m.adjustBalanceError
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

var _ = Describe("EmployeeService", func() {
	var (
		service  *employee.Service
		mockRepo *mockEmployeeRepository
		cfg      internal.LeaveConfig
	)

	BeforeEach(func() {
		mockRepo = newMockEmployeeRepository()
		cfg = internal.LeaveConfig{
			DefaultAnnualEntitlement: 24,
			DefaultSickEntitlement:   12,
			MinNoticeDaysAnnual:      3,
			MaxWorkingDaysPerRequest: 30,
		}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(mockRepo, cfg, lg)
	})

	Describe("CreateEmployee", func() {
		Context("with a valid payload", func() {
			It("creates the employee with the full sick entitlement", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Rajesh Kumar",
					Email:       "rajesh@symplora.com",
					Department:  "Engineering",
					JoiningDate: "2023-01-16",
				}

				emp, err := service.CreateEmployee(dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(emp.ID).To(BeNumerically(">", 0))
				Expect(emp.SickLeaveBalance).To(Equal(12))
				Expect(emp.IsActive).To(BeTrue())
			})

			It("grants the full annual entitlement to a prior-year joiner", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Priya Sharma",
					Email:       "priya@symplora.com",
					Department:  "HR",
					JoiningDate: "2023-03-01",
				}

				emp, err := service.CreateEmployee(dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(emp.AnnualLeaveBalance).To(Equal(24))
			})

			It("normalizes the email to lower case", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Amit Patel",
					Email:       "  Amit.Patel@Symplora.COM ",
					Department:  "Finance",
					JoiningDate: "2023-02-12",
				}

				emp, err := service.CreateEmployee(dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(emp.Email).To(Equal("amit.patel@symplora.com"))
			})
		})

		Context("with an invalid payload", func() {
			It("rejects a missing name", func() {
				dto := employee.CreateEmployeeDTO{
					Email:       "x@symplora.com",
					Department:  "Engineering",
					JoiningDate: "2023-01-16",
				}

				_, err := service.CreateEmployee(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})

			It("rejects an unknown department", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Sneha Reddy",
					Email:       "sneha@symplora.com",
					Department:  "Legal",
					JoiningDate: "2023-01-16",
				}

				_, err := service.CreateEmployee(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDepartment))
			})

			It("rejects a malformed date", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Sneha Reddy",
					Email:       "sneha@symplora.com",
					Department:  "Marketing",
					JoiningDate: "16/01/2023",
				}

				_, err := service.CreateEmployee(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
			})
		})

		Context("with a future joining date", func() {
			It("rejects it as a business rule violation", func() {
				future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
				dto := employee.CreateEmployeeDTO{
					Name:        "Vikram Singh",
					Email:       "vikram@symplora.com",
					Department:  "Engineering",
					JoiningDate: future,
				}

				_, err := service.CreateEmployee(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeBusinessRule))
				Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidJoiningDate))
			})
		})

		Context("with a duplicate email", func() {
			It("returns a conflict", func() {
				dto := employee.CreateEmployeeDTO{
					Name:        "Rajesh Kumar",
					Email:       "rajesh@symplora.com",
					Department:  "Engineering",
					JoiningDate: "2023-01-16",
				}
				_, err := service.CreateEmployee(dto)
				Expect(err).ToNot(HaveOccurred())

				dto.Name = "Another Rajesh"
				_, err = service.CreateEmployee(dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateEmail))
			})
		})
	})

	Describe("AdjustBalance", func() {
		var empID int64

		BeforeEach(func() {
			emp, err := service.CreateEmployee(employee.CreateEmployeeDTO{
				Name:        "Rajesh Kumar",
				Email:       "rajesh@symplora.com",
				Department:  "Engineering",
				JoiningDate: "2023-01-16",
			})
			Expect(err).ToNot(HaveOccurred())
			empID = emp.ID
		})

		It("subtracts days from the annual balance", func() {
			resp, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "annual",
				Days:      5,
				Operation: "subtract",
				Reason:    "manual correction",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.UpdatedBalances.AnnualLeaveBalance).To(Equal(19))
		})

		It("adds days to the sick balance", func() {
			resp, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "sick",
				Days:      3,
				Operation: "add",
				Reason:    "carry-over credit",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.UpdatedBalances.SickLeaveBalance).To(Equal(15))
		})

		It("defaults the operation to subtract", func() {
			resp, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "annual",
				Days:      2,
				Reason:    "manual correction",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.UpdatedBalances.AnnualLeaveBalance).To(Equal(22))
		})

		It("rejects a subtract beyond the available balance", func() {
			_, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "sick",
				Days:      13,
				Operation: "subtract",
				Reason:    "manual correction",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientBalance))
		})

		It("rejects an unknown leave type", func() {
			_, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "emergency",
				Days:      1,
				Operation: "add",
				Reason:    "manual correction",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidLeaveType))
		})

		It("rejects a reason shorter than five characters", func() {
			_, err := service.AdjustBalance(empID, employee.AdjustBalanceDTO{
				LeaveType: "annual",
				Days:      1,
				Operation: "add",
				Reason:    "fix",
			})

			Expect(err).To(HaveOccurred())
		})

		It("returns not found for a missing employee", func() {
			_, err := service.AdjustBalance(9999, employee.AdjustBalanceDTO{
				LeaveType: "annual",
				Days:      1,
				Operation: "add",
				Reason:    "manual correction",
			})

			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})
})
