package postgres

import (
	"github.com/symplora/leave-management/internal/employee"
	employeepg "github.com/symplora/leave-management/internal/employee/postgres"
	"github.com/symplora/leave-management/internal/leave"
	"gorm.io/gorm"
)

// Datastore hands out GORM-backed repositories sharing one connection, and
// rebinds them to a transaction for atomic multi-table transitions.
type Datastore struct {
	db        *gorm.DB
	leaves    leave.Repository
	employees employee.Repository
}

func NewDatastore(db *gorm.DB) *Datastore {
	return &Datastore{
		db:        db,
		leaves:    NewLeaveRepository(db),
		employees: employeepg.NewEmployeeRepository(db),
	}
}

func (d *Datastore) Leaves() leave.Repository {
	return d.leaves
}

func (d *Datastore) Employees() employee.Repository {
	return d.employees
}

// Atomically runs fn against repositories bound to a single transaction; an
// error from fn rolls back everything written inside it.
func (d *Datastore) Atomically(fn func(ds leave.Datastore) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewDatastore(tx))
	})
}
