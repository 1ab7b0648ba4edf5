package ledger

import (
	"context"

	"hourbank/internal/domain/balance"
)

type StoreAPI interface {
	// Upsert stores or replaces one row atomically. It returns an errs
	// conflict when the stored row for the same period is closed.
	Upsert(ctx context.Context, row balance.PeriodBalance) (balance.PeriodBalance, error)
	// ReplaceOpen deletes the employee's open rows after the anchor period (all
	// open rows when after is nil) and writes rows, in one transaction.
	ReplaceOpen(ctx context.Context, employeeID string, after *balance.Period, rows []balance.PeriodBalance) error
	Get(ctx context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, bool, error)
	// List returns rows newest first.
	List(ctx context.Context, employeeID string, filter Filter) ([]balance.PeriodBalance, error)
	ListByUnit(ctx context.Context, unitID string, period balance.Period) ([]balance.PeriodBalance, error)
	LatestClosed(ctx context.Context, employeeID string) (balance.PeriodBalance, bool, error)
	Close(ctx context.Context, employeeID string, period balance.Period) (balance.PeriodBalance, error)
}
