package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
)

type rowKey struct {
	employeeID string
	period     balance.Period
}

// MemoryStore is the in-process ledger. A single mutex gives every operation
// the same atomicity the Postgres store gets from row locks and transactions.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[rowKey]balance.PeriodBalance
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[rowKey]balance.PeriodBalance{}, now: time.Now}
}

func (m *MemoryStore) upsertLocked(row balance.PeriodBalance) (balance.PeriodBalance, error) {
	key := rowKey{employeeID: row.EmployeeID, period: row.Period()}
	if existing, ok := m.rows[key]; ok && existing.Closed {
		return balance.PeriodBalance{}, errs.Conflict("ledger.upsert", fmt.Sprintf("period %s is closed", row.Period()))
	}
	row.Closed = false
	row.ComputedAt = m.now().UTC()
	m.rows[key] = row
	return row, nil
}

func (m *MemoryStore) Upsert(_ context.Context, row balance.PeriodBalance) (balance.PeriodBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertLocked(row)
}

func (m *MemoryStore) ReplaceOpen(_ context.Context, employeeID string, after *balance.Period, rows []balance.PeriodBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		if existing, ok := m.rows[rowKey{employeeID: row.EmployeeID, period: row.Period()}]; ok && existing.Closed {
			return errs.Conflict("ledger.replace_open", fmt.Sprintf("period %s is closed", row.Period()))
		}
	}
	for key, existing := range m.rows {
		if key.employeeID != employeeID || existing.Closed {
			continue
		}
		if after == nil || after.Before(key.period) {
			delete(m.rows, key)
		}
	}
	for _, row := range rows {
		if _, err := m.upsertLocked(row); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[rowKey{employeeID: employeeID, period: period}]
	return row, ok, nil
}

func (m *MemoryStore) List(_ context.Context, employeeID string, filter Filter) ([]balance.PeriodBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]balance.PeriodBalance, 0)
	for key, row := range m.rows {
		if key.employeeID == employeeID && filter.matches(key.period) {
			out = append(out, row)
		}
	}
	sortDescending(out)
	return out, nil
}

func (m *MemoryStore) ListByUnit(_ context.Context, unitID string, period balance.Period) ([]balance.PeriodBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]balance.PeriodBalance, 0)
	for key, row := range m.rows {
		if row.UnitID == unitID && key.period == period {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *MemoryStore) LatestClosed(_ context.Context, employeeID string) (balance.PeriodBalance, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest balance.PeriodBalance
	found := false
	for key, row := range m.rows {
		if key.employeeID != employeeID || !row.Closed {
			continue
		}
		if !found || latest.Period().Before(key.period) {
			latest = row
			found = true
		}
	}
	return latest, found, nil
}

func (m *MemoryStore) Close(_ context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := rowKey{employeeID: employeeID, period: period}
	row, ok := m.rows[key]
	if !ok {
		return balance.PeriodBalance{}, errs.NotFound("ledger.close", fmt.Sprintf("no balance for period %s", period))
	}
	row.Closed = true
	m.rows[key] = row
	return row, nil
}

func sortDescending(rows []balance.PeriodBalance) {
	sort.Slice(rows, func(i, j int) bool { return rows[j].Period().Before(rows[i].Period()) })
}
