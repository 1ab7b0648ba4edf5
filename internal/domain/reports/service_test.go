package reports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/ledger"
	"hourbank/internal/domain/overtime"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/timeentry"
	"hourbank/internal/domain/unitconfig"
)

var supervisor = &auth.Principal{UserID: "u-sup", Role: auth.RoleSupervisor}

func setup(t *testing.T) (*Service, personnel.Employee) {
	t.Helper()
	ctx := context.Background()
	employees := personnel.NewService(personnel.NewMemoryStore())
	entries := timeentry.NewService(timeentry.NewMemoryStore())
	ot := overtime.NewService(overtime.Deps{
		Configs:   unitconfig.NewService(unitconfig.NewMemoryStore(), unitconfig.StandardDefaults()),
		Ledger:    ledger.NewService(ledger.NewMemoryStore()),
		Entries:   entries,
		Employees: employees,
	})
	emp, err := employees.Create(ctx, personnel.NewEmployee{Name: "Ayse", Surname: "Kaya", NationalID: "1", UnitID: "ACC"})
	require.NoError(t, err)
	for day := 1; day <= 19; day++ {
		_, err := entries.Record(ctx, emp.ID, time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC), 10, "")
		require.NoError(t, err)
	}
	_, err = ot.Rebuild(ctx, emp.ID, nil)
	require.NoError(t, err)
	return NewService(ot, employees), emp
}

func TestSummarize(t *testing.T) {
	rows := []balance.PeriodBalance{
		{WorkedHours: 190, OvertimeHours: 10, BalanceHours: 10, OvertimePayPercent: 70},
		{WorkedHours: 170, DeficitHours: 10, BalanceHours: -10, OvertimePayPercent: 70},
	}
	s := Summarize("ACC", balance.NewPeriod(2025, 1), rows)
	assert.Equal(t, 2, s.Employees)
	assert.Equal(t, 360.0, s.WorkedHours)
	assert.Equal(t, 0.0, s.NetBalanceHours)
	assert.InDelta(t, 7.0, s.PayableOvertime, 1e-9)
	assert.Equal(t, 1, s.EmployeesInDeficit)
}

func TestUnitWorkbook(t *testing.T) {
	svc, emp := setup(t)
	data, err := svc.UnitWorkbook(context.Background(), supervisor, "ACC", balance.NewPeriod(2025, 1))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("2025-01", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee ID", header)
	id, err := f.GetCellValue("2025-01", "A2")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, id)
	name, err := f.GetCellValue("2025-01", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ayse Kaya", name)
	overtimeHours, err := f.GetCellValue("2025-01", "E2")
	require.NoError(t, err)
	assert.Equal(t, "10", overtimeHours)
}

func TestStatementAccess(t *testing.T) {
	svc, emp := setup(t)
	ctx := context.Background()

	self := &auth.Principal{UserID: "u-emp", Role: auth.RoleEmployee, EmployeeID: emp.ID}
	data, err := svc.Statement(ctx, self, emp.ID, 2025)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	other := &auth.Principal{UserID: "u-x", Role: auth.RoleEmployee, EmployeeID: "someone"}
	_, err = svc.Statement(ctx, other, emp.ID, 2025)
	assert.True(t, errors.Is(err, errs.ErrForbidden))

	_, err = svc.Statement(ctx, self, emp.ID, 0)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}
