package postgres

import (
	"errors"

	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/policy"
	"gorm.io/gorm"
)

// PolicyRepository implements the policy.Repository interface using GORM
type PolicyRepository struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) policy.Repository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) GetAll() ([]*policy.LeavePolicy, error) {
	var policies []*policy.LeavePolicy
	err := r.db.Where("is_active = ?", true).
		Order("leave_type ASC").
		Find(&policies).Error
	return policies, err
}

func (r *PolicyRepository) GetByType(leaveType string) (*policy.LeavePolicy, error) {
	var p policy.LeavePolicy
	err := r.db.Where("leave_type = ? AND is_active = ?", leaveType, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Leave policy not found", internal.ErrCodePolicyNotFound)
		}
		return nil, err
	}
	return &p, nil
}
