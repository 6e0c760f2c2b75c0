package policy

import (
	"log/slog"

	"github.com/symplora/leave-management/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListPolicies() ([]*LeavePolicy, error) {
	policies, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list leave policies", "error", err)
		return nil, internal.NewTransientError("failed to list leave policies", err)
	}
	return policies, nil
}

func (s *Service) GetPolicy(leaveType string) (*LeavePolicy, error) {
	p, err := s.repo.GetByType(leaveType)
	if err != nil {
		return nil, err
	}
	return p, nil
}
