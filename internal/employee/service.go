package employee

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/symplora/leave-management/internal"
)

// Service handles employee business logic
type Service struct {
	repo   Repository
	cfg    internal.LeaveConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cfg internal.LeaveConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// CreateEmployee registers a new employee with a pro-rated annual balance and
// the flat sick default.
func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	joining, err := dto.Validate()
	if err != nil {
		s.logger.Warn("employee validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	today := internal.Midnight(s.now())
	if err := ValidateJoiningDate(joining, today); err != nil {
		s.logger.Warn("joining date rejected", "error", err, "joining_date", dto.JoiningDate)
		return nil, internal.NewBusinessRuleError(err.Error(), internal.ErrCodeInvalidJoiningDate)
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil && !errors.Is(err, internal.ErrEmployeeNotFound) {
		s.logger.Error("duplicate email lookup failed", "error", err, "email", dto.Email)
		return nil, internal.NewTransientError("failed to check existing employees", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	emp := &Employee{
		Name:               dto.Name,
		Email:              dto.Email,
		Department:         dto.Department,
		JoiningDate:        joining,
		AnnualLeaveBalance: ProRatedAnnualEntitlement(joining, today, s.cfg.DefaultAnnualEntitlement),
		SickLeaveBalance:   s.cfg.DefaultSickEntitlement,
		IsActive:           true,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, internal.NewTransientError("failed to create employee", err)
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"department", emp.Department,
		"annual_leave_balance", emp.AnnualLeaveBalance)

	return emp, nil
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Service) ListEmployees() ([]*Employee, error) {
	employees, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewTransientError("failed to list employees", err)
	}
	return employees, nil
}

// LeaveBalance builds the per-type balance summary with utilization.
func (s *Service) LeaveBalance(id int64) (*LeaveBalanceResponse, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return &LeaveBalanceResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Department:   emp.Department,
		JoiningDate:  internal.FormatDate(emp.JoiningDate),
		LeaveBalances: map[string]BalanceDetail{
			string(BalanceAnnual): balanceDetail(s.cfg.DefaultAnnualEntitlement, emp.AnnualLeaveBalance),
			string(BalanceSick):   balanceDetail(s.cfg.DefaultSickEntitlement, emp.SickLeaveBalance),
		},
	}, nil
}

func balanceDetail(entitlement, remaining int) BalanceDetail {
	used := entitlement - remaining
	pct := 0.0
	if entitlement > 0 {
		pct = math.Round(float64(used)/float64(entitlement)*1000) / 10
	}
	return BalanceDetail{
		TotalEntitlement: entitlement,
		RemainingBalance: remaining,
		Used:             used,
		UtilizationPct:   pct,
	}
}

// DepartmentStats aggregates headcount and average balances per department.
func (s *Service) DepartmentStats() (*DepartmentStatsResponse, error) {
	stats, err := s.repo.DepartmentStats()
	if err != nil {
		s.logger.Error("failed to load department stats", "error", err)
		return nil, internal.NewTransientError("failed to load department stats", err)
	}

	resp := &DepartmentStatsResponse{DepartmentBreakdown: stats}
	var totalEmployees int64
	var annualSum, sickSum float64
	for _, d := range stats {
		totalEmployees += d.TotalEmployees
		annualSum += d.AvgAnnualBalance
		sickSum += d.AvgSickBalance
	}
	resp.Summary = DepartmentSummaryRow{
		TotalEmployees:   totalEmployees,
		TotalDepartments: len(stats),
	}
	if len(stats) > 0 {
		resp.Summary.CompanyAvgAnnualBalance = math.Round(annualSum/float64(len(stats))*10) / 10
		resp.Summary.CompanyAvgSickBalance = math.Round(sickSum/float64(len(stats))*10) / 10
	}
	return resp, nil
}

// AdjustBalance is the manual ledger entry point for HR corrections. It
// pre-checks sufficiency on subtract; the repository's guarded update is the
// backstop against racing adjustments.
func (s *Service) AdjustBalance(id int64, dto AdjustBalanceDTO) (*AdjustBalanceResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	balanceType := BalanceType(dto.LeaveType)
	op := BalanceOperation(dto.Operation)

	if op == OperationSubtract && emp.Balance(balanceType) < dto.Days {
		return nil, internal.NewBusinessRuleError(
			"Insufficient "+dto.LeaveType+" leave balance",
			internal.ErrCodeInsufficientBalance)
	}

	if err := s.repo.AdjustBalance(id, balanceType, dto.Days, op); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			return nil, internal.NewBusinessRuleError(
				"Insufficient "+dto.LeaveType+" leave balance",
				internal.ErrCodeInsufficientBalance)
		}
		s.logger.Error("balance adjustment failed", "error", err, "employee_id", id)
		return nil, internal.NewTransientError("failed to adjust balance", err)
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance adjusted",
		"employee_id", id,
		"leave_type", dto.LeaveType,
		"days", dto.Days,
		"operation", dto.Operation,
		"reason", dto.Reason)

	return &AdjustBalanceResponse{
		EmployeeID:       updated.ID,
		EmployeeName:     updated.Name,
		OperationDetails: dto,
		UpdatedBalances: UpdatedBalances{
			AnnualLeaveBalance: updated.AnnualLeaveBalance,
			SickLeaveBalance:   updated.SickLeaveBalance,
		},
	}, nil
}
