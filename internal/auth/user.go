package auth

import (
	"errors"
	"time"
)

// ErrUserNotFound is the repository-level miss; the login service folds it
// into the generic invalid-credentials error.
var ErrUserNotFound = errors.New("user not found")

// Role is the closed set of access levels.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleHR || r == RoleManager || r == RoleEmployee
}

// CanManageBalances reports whether the role may run manual ledger
// adjustments.
func (r Role) CanManageBalances() bool {
	return r == RoleAdmin || r == RoleHR
}

// User is a login account. It may be linked to an employee record; service
// accounts (the seeded HR admin) have no linked employee.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"not null;default:employee"`
	EmployeeID   *int64    `json:"employee_id,omitempty" gorm:"column:employee_id"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Repository defines the data access methods for user accounts.
type Repository interface {
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	Create(user *User) error
}
