package unitconfig

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Find(ctx context.Context, unitID string) (Config, bool, error) {
	var cfg Config
	err := s.DB.QueryRow(ctx, `
    SELECT unit_id, standard_monthly_hours, overtime_pay_percent, updated_at
    FROM unit_configurations
    WHERE unit_id = $1
  `, unitID).Scan(&cfg.UnitID, &cfg.StandardMonthlyHours, &cfg.OvertimePayPercent, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	return cfg, true, nil
}

func (s *Store) Upsert(ctx context.Context, cfg Config) (Config, error) {
	out := cfg
	err := s.DB.QueryRow(ctx, `
    INSERT INTO unit_configurations (unit_id, standard_monthly_hours, overtime_pay_percent)
    VALUES ($1,$2,$3)
    ON CONFLICT (unit_id) DO UPDATE
      SET standard_monthly_hours = EXCLUDED.standard_monthly_hours,
          overtime_pay_percent = EXCLUDED.overtime_pay_percent,
          updated_at = now()
    RETURNING updated_at
  `, cfg.UnitID, cfg.StandardMonthlyHours, cfg.OvertimePayPercent).Scan(&out.UpdatedAt)
	if err != nil {
		return Config{}, err
	}
	return out, nil
}

func (s *Store) List(ctx context.Context) ([]Config, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT unit_id, standard_monthly_hours, overtime_pay_percent, updated_at
    FROM unit_configurations
    ORDER BY unit_id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := make([]Config, 0)
	for rows.Next() {
		var cfg Config
		if err := rows.Scan(&cfg.UnitID, &cfg.StandardMonthlyHours, &cfg.OvertimePayPercent, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
