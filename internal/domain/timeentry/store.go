package timeentry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hourbank/internal/domain/balance"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, entry Entry) (Entry, error) {
	out := entry
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (id, employee_id, work_date, hours, description)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING created_at
  `, entry.ID, entry.EmployeeID, entry.WorkDate, entry.Hours, entry.Description).Scan(&out.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Entry, bool, error) {
	var e Entry
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, work_date, hours, description, created_at
    FROM time_entries
    WHERE id = $1
  `, id).Scan(&e.ID, &e.EmployeeID, &e.WorkDate, &e.Hours, &e.Description, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	return err
}

func (s *Store) List(ctx context.Context, employeeID string, filter Filter) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, work_date, hours, description, created_at
    FROM time_entries
    WHERE employee_id = $1
      AND ($2::int = 0 OR EXTRACT(YEAR FROM work_date)::int = $2::int)
      AND ($3::int = 0 OR EXTRACT(MONTH FROM work_date)::int = $3::int)
    ORDER BY work_date DESC, created_at DESC
  `, employeeID, filter.Year, filter.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.WorkDate, &e.Hours, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) MonthlyTotals(ctx context.Context, employeeID string) ([]balance.PeriodHours, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT EXTRACT(YEAR FROM work_date)::int AS y, EXTRACT(MONTH FROM work_date)::int AS m, SUM(hours)
    FROM time_entries
    WHERE employee_id = $1
    GROUP BY y, m
    ORDER BY y, m
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]balance.PeriodHours, 0)
	for rows.Next() {
		var ph balance.PeriodHours
		if err := rows.Scan(&ph.Period.Year, &ph.Period.Month, &ph.WorkedHours); err != nil {
			return nil, err
		}
		totals = append(totals, ph)
	}
	return totals, rows.Err()
}
