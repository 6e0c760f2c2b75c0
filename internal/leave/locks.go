package leave

import "sync"

// employeeLocks serializes check-then-act sequences per employee so that two
// concurrent submissions or decisions for the same employee cannot interleave
// between the balance read and the write. Different employees proceed in
// parallel.
type employeeLocks struct {
	mu    sync.Mutex
	locks map[int64]*employeeLock
}

type employeeLock struct {
	sync.Mutex
	refs int
}

func newEmployeeLocks() *employeeLocks {
	return &employeeLocks{locks: make(map[int64]*employeeLock)}
}

// Acquire blocks until the employee's lock is held and returns the release
// function. Entries are reference counted and removed once idle so the map
// does not grow with employee count.
func (l *employeeLocks) Acquire(employeeID int64) func() {
	l.mu.Lock()
	el, ok := l.locks[employeeID]
	if !ok {
		el = &employeeLock{}
		l.locks[employeeID] = el
	}
	el.refs++
	l.mu.Unlock()

	el.Lock()

	return func() {
		el.Unlock()
		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, employeeID)
		}
		l.mu.Unlock()
	}
}
