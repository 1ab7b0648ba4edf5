package timeentry

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Record(ctx context.Context, employeeID string, workDate time.Time, hours float64, description string) (Entry, error) {
	const op = "timeentry.record"
	if strings.TrimSpace(employeeID) == "" {
		return Entry{}, errs.Validation(op, "employeeId is required")
	}
	if workDate.IsZero() {
		return Entry{}, errs.Validation(op, "workDate is required")
	}
	if math.IsNaN(hours) || hours <= 0 || hours > MaxHoursPerEntry {
		return Entry{}, errs.Validation(op, "hours must be between 0 and 24")
	}
	if len(description) > 500 {
		return Entry{}, errs.Validation(op, "description must be at most 500 characters")
	}
	day := time.Date(workDate.Year(), workDate.Month(), workDate.Day(), 0, 0, 0, 0, time.UTC)
	created, err := s.store.Create(ctx, Entry{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		WorkDate:    day,
		Hours:       hours,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return Entry{}, errs.Store(op, err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	e, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Entry{}, errs.Store("timeentry.get", err)
	}
	if !ok {
		return Entry{}, errs.NotFound("timeentry.get", "time entry not found")
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return errs.Store("timeentry.delete", s.store.Delete(ctx, id))
}

func (s *Service) List(ctx context.Context, employeeID string, filter Filter) ([]Entry, error) {
	if filter.Month < 0 || filter.Month > 12 {
		return nil, errs.Validation("timeentry.list", "month must be between 1 and 12")
	}
	entries, err := s.store.List(ctx, employeeID, filter)
	if err != nil {
		return nil, errs.Store("timeentry.list", err)
	}
	return entries, nil
}

func (s *Service) MonthlyTotals(ctx context.Context, employeeID string) ([]balance.PeriodHours, error) {
	totals, err := s.store.MonthlyTotals(ctx, employeeID)
	if err != nil {
		return nil, errs.Store("timeentry.monthly_totals", err)
	}
	return totals, nil
}
