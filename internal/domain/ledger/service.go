package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Upsert(ctx context.Context, row balance.PeriodBalance) (balance.PeriodBalance, error) {
	if err := validateRow(row); err != nil {
		return balance.PeriodBalance{}, err
	}
	stored, err := s.store.Upsert(ctx, row)
	if err != nil {
		return balance.PeriodBalance{}, errs.Store("ledger.upsert", err)
	}
	return stored, nil
}

func (s *Service) ReplaceOpen(ctx context.Context, employeeID string, after *balance.Period, rows []balance.PeriodBalance) error {
	for _, row := range rows {
		if row.EmployeeID != employeeID {
			return errs.Validation("ledger.replace_open", "rows must belong to a single employee")
		}
		if err := validateRow(row); err != nil {
			return err
		}
		if after != nil && !after.Before(row.Period()) {
			return errs.Validation("ledger.replace_open", fmt.Sprintf("period %s is not after %s", row.Period(), after))
		}
	}
	return errs.Store("ledger.replace_open", s.store.ReplaceOpen(ctx, employeeID, after, rows))
}

func (s *Service) List(ctx context.Context, employeeID string, filter Filter) ([]balance.PeriodBalance, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, errs.Validation("ledger.list", "employeeId is required")
	}
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		return nil, errs.Validation("ledger.list", "month must be between 1 and 12")
	}
	rows, err := s.store.List(ctx, employeeID, filter)
	if err != nil {
		return nil, errs.Store("ledger.list", err)
	}
	return rows, nil
}

func (s *Service) ListByUnit(ctx context.Context, unitID string, period balance.Period) ([]balance.PeriodBalance, error) {
	if !period.Valid() {
		return nil, errs.Validation("ledger.list_by_unit", "invalid period")
	}
	rows, err := s.store.ListByUnit(ctx, unitID, period)
	if err != nil {
		return nil, errs.Store("ledger.list_by_unit", err)
	}
	return rows, nil
}

func (s *Service) LatestClosed(ctx context.Context, employeeID string) (balance.PeriodBalance, bool, error) {
	row, ok, err := s.store.LatestClosed(ctx, employeeID)
	if err != nil {
		return balance.PeriodBalance{}, false, errs.Store("ledger.latest_closed", err)
	}
	return row, ok, nil
}

func (s *Service) Close(ctx context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, error) {
	if !period.Valid() {
		return balance.PeriodBalance{}, errs.Validation("ledger.close", "invalid period")
	}
	row, err := s.store.Close(ctx, employeeID, period)
	if err != nil {
		return balance.PeriodBalance{}, errs.Store("ledger.close", err)
	}
	return row, nil
}

func validateRow(row balance.PeriodBalance) error {
	const op = "ledger.validate"
	if strings.TrimSpace(row.EmployeeID) == "" {
		return errs.Validation(op, "employeeId is required")
	}
	if !row.Period().Valid() {
		return errs.Validation(op, "month must be between 1 and 12")
	}
	for _, v := range []float64{row.WorkedHours, row.StandardHours, row.BalanceHours, row.CarriedFromPrevious} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.Validation(op, "hours must be finite")
		}
	}
	return nil
}
