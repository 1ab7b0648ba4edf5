package personnel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hourbank/internal/domain/errs"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, id string) (Employee, bool, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, surname, national_id, unit_id, created_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.Name, &e.Surname, &e.NationalID, &e.UnitID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	return e, true, nil
}

func (s *Store) List(ctx context.Context, unitID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, surname, national_id, unit_id, created_at
    FROM employees
    WHERE ($1 = '' OR unit_id = $1)
    ORDER BY surname, name
  `, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]Employee, 0)
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Surname, &e.NationalID, &e.UnitID, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) Create(ctx context.Context, employee Employee) (Employee, error) {
	out := employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (id, name, surname, national_id, unit_id)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING created_at
  `, employee.ID, employee.Name, employee.Surname, employee.NationalID, employee.UnitID).Scan(&out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Employee{}, errs.Conflict("personnel.create", "national id already registered")
		}
		return Employee{}, err
	}
	return out, nil
}
