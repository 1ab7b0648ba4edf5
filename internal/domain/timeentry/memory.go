package timeentry

import (
	"context"
	"sort"
	"sync"
	"time"

	"hourbank/internal/domain/balance"
)

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func (m *MemoryStore) Create(_ context.Context, entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.CreatedAt = time.Now().UTC()
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) List(_ context.Context, employeeID string, filter Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0)
	for _, e := range m.entries {
		if e.EmployeeID != employeeID {
			continue
		}
		if filter.Year != 0 && e.WorkDate.Year() != filter.Year {
			continue
		}
		if filter.Month != 0 && int(e.WorkDate.Month()) != filter.Month {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].WorkDate.After(out[j].WorkDate)
	})
	return out, nil
}

func (m *MemoryStore) MonthlyTotals(_ context.Context, employeeID string) ([]balance.PeriodHours, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := map[balance.Period]float64{}
	for _, e := range m.entries {
		if e.EmployeeID == employeeID {
			sums[balance.PeriodOf(e.WorkDate)] += e.Hours
		}
	}
	periods := make([]balance.Period, 0, len(sums))
	for p := range sums {
		periods = append(periods, p)
	}
	balance.SortAscending(periods)
	out := make([]balance.PeriodHours, 0, len(periods))
	for _, p := range periods {
		out = append(out, balance.PeriodHours{Period: p, WorkedHours: sums[p]})
	}
	return out, nil
}
