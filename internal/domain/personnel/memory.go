package personnel

import (
	"context"
	"sort"
	"sync"
	"time"

	"hourbank/internal/domain/errs"
)

type MemoryStore struct {
	mu        sync.RWMutex
	employees map[string]Employee
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{employees: map[string]Employee{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Employee, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	return e, ok, nil
}

func (m *MemoryStore) List(_ context.Context, unitID string) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if unitID == "" || e.UnitID == unitID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Surname == out[j].Surname {
			return out[i].Name < out[j].Name
		}
		return out[i].Surname < out[j].Surname
	})
	return out, nil
}

func (m *MemoryStore) Create(_ context.Context, employee Employee) (Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.NationalID == employee.NationalID {
			return Employee{}, errs.Conflict("personnel.create", "national id already registered")
		}
	}
	employee.CreatedAt = time.Now().UTC()
	m.employees[employee.ID] = employee
	return employee, nil
}
