package timeentry

import (
	"context"

	"hourbank/internal/domain/balance"
)

type StoreAPI interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id string) (Entry, bool, error)
	Delete(ctx context.Context, id string) error
	// List returns entries newest first.
	List(ctx context.Context, employeeID string, filter Filter) ([]Entry, error)
	// MonthlyTotals sums hours per calendar month, oldest first, for months
	// that have at least one entry.
	MonthlyTotals(ctx context.Context, employeeID string) ([]balance.PeriodHours, error)
}
