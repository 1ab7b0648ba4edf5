package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const balanceColumns = `employee_id, year, month, unit_id, worked_hours, standard_hours, overtime_hours,
           deficit_hours, balance_hours, carried_from_previous, overtime_pay_percent, closed, computed_at`

func scanBalance(row pgx.Row) (balance.PeriodBalance, error) {
	var b balance.PeriodBalance
	err := row.Scan(&b.EmployeeID, &b.Year, &b.Month, &b.UnitID, &b.WorkedHours, &b.StandardHours, &b.OvertimeHours,
		&b.DeficitHours, &b.BalanceHours, &b.CarriedFromPrevious, &b.OvertimePayPercent, &b.Closed, &b.ComputedAt)
	return b, err
}

func upsertRow(ctx context.Context, q querier, row balance.PeriodBalance) (balance.PeriodBalance, error) {
	out := row
	err := q.QueryRow(ctx, `
    INSERT INTO period_balances (employee_id, year, month, unit_id, worked_hours, standard_hours, overtime_hours,
                                 deficit_hours, balance_hours, carried_from_previous, overtime_pay_percent, computed_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
    ON CONFLICT (employee_id, year, month) DO UPDATE
      SET unit_id = EXCLUDED.unit_id,
          worked_hours = EXCLUDED.worked_hours,
          standard_hours = EXCLUDED.standard_hours,
          overtime_hours = EXCLUDED.overtime_hours,
          deficit_hours = EXCLUDED.deficit_hours,
          balance_hours = EXCLUDED.balance_hours,
          carried_from_previous = EXCLUDED.carried_from_previous,
          overtime_pay_percent = EXCLUDED.overtime_pay_percent,
          computed_at = now()
      WHERE period_balances.closed = false
    RETURNING computed_at
  `, row.EmployeeID, row.Year, row.Month, row.UnitID, row.WorkedHours, row.StandardHours, row.OvertimeHours,
		row.DeficitHours, row.BalanceHours, row.CarriedFromPrevious, row.OvertimePayPercent).Scan(&out.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return balance.PeriodBalance{}, errs.Conflict("ledger.upsert", fmt.Sprintf("period %s is closed", row.Period()))
	}
	if err != nil {
		return balance.PeriodBalance{}, err
	}
	out.Closed = false
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, row balance.PeriodBalance) (balance.PeriodBalance, error) {
	return upsertRow(ctx, s.DB, row)
}

func (s *Store) ReplaceOpen(ctx context.Context, employeeID string, after *balance.Period, rows []balance.PeriodBalance) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if after == nil {
		_, err = tx.Exec(ctx, `
      DELETE FROM period_balances
      WHERE employee_id = $1 AND closed = false
    `, employeeID)
	} else {
		_, err = tx.Exec(ctx, `
      DELETE FROM period_balances
      WHERE employee_id = $1 AND closed = false AND (year, month) > ($2, $3)
    `, employeeID, after.Year, after.Month)
	}
	if err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := upsertRow(ctx, tx, row); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) Get(ctx context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, bool, error) {
	b, err := scanBalance(s.DB.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM period_balances
    WHERE employee_id = $1 AND year = $2 AND month = $3
  `, employeeID, period.Year, period.Month))
	if errors.Is(err, pgx.ErrNoRows) {
		return balance.PeriodBalance{}, false, nil
	}
	if err != nil {
		return balance.PeriodBalance{}, false, err
	}
	return b, true, nil
}

func (s *Store) List(ctx context.Context, employeeID string, filter Filter) ([]balance.PeriodBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+balanceColumns+`
    FROM period_balances
    WHERE employee_id = $1
      AND ($2::int IS NULL OR year = $2)
      AND ($3::int IS NULL OR month = $3)
    ORDER BY year DESC, month DESC
  `, employeeID, filter.Year, filter.Month)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) ListByUnit(ctx context.Context, unitID string, period balance.Period) ([]balance.PeriodBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+balanceColumns+`
    FROM period_balances
    WHERE unit_id = $1 AND year = $2 AND month = $3
    ORDER BY employee_id
  `, unitID, period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *Store) LatestClosed(ctx context.Context, employeeID string) (balance.PeriodBalance, bool, error) {
	b, err := scanBalance(s.DB.QueryRow(ctx, `
    SELECT `+balanceColumns+`
    FROM period_balances
    WHERE employee_id = $1 AND closed = true
    ORDER BY year DESC, month DESC
    LIMIT 1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return balance.PeriodBalance{}, false, nil
	}
	if err != nil {
		return balance.PeriodBalance{}, false, err
	}
	return b, true, nil
}

func (s *Store) Close(ctx context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, error) {
	b, err := scanBalance(s.DB.QueryRow(ctx, `
    UPDATE period_balances
    SET closed = true, closed_at = COALESCE(closed_at, now())
    WHERE employee_id = $1 AND year = $2 AND month = $3
    RETURNING `+balanceColumns, employeeID, period.Year, period.Month))
	if errors.Is(err, pgx.ErrNoRows) {
		return balance.PeriodBalance{}, errs.NotFound("ledger.close", fmt.Sprintf("no balance for period %s", period))
	}
	return b, err
}

func collect(rows pgx.Rows) ([]balance.PeriodBalance, error) {
	defer rows.Close()
	out := make([]balance.PeriodBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
