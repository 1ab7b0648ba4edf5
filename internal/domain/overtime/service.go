// Package overtime is the entry point for hour-balance queries and the
// operations that change balances. Every call takes the caller's principal;
// a nil principal is rejected before any store is touched.
package overtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hourbank/internal/domain/audit"
	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/ledger"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/timeentry"
	"hourbank/internal/domain/unitconfig"
	"hourbank/internal/platform/lock"
	"hourbank/internal/requestctx"
)

type Deps struct {
	Configs   *unitconfig.Service
	Ledger    *ledger.Service
	Entries   *timeentry.Service
	Employees *personnel.Service
	Locker    lock.Locker
	Audit     audit.Recorder
	Logger    *zap.Logger
	Now       func() time.Time
}

type Service struct {
	configs   *unitconfig.Service
	ledger    *ledger.Service
	entries   *timeentry.Service
	employees *personnel.Service
	locker    lock.Locker
	audit     audit.Recorder
	log       *zap.Logger
	now       func() time.Time
}

func NewService(d Deps) *Service {
	s := &Service{
		configs:   d.Configs,
		ledger:    d.Ledger,
		entries:   d.Entries,
		employees: d.Employees,
		locker:    d.Locker,
		audit:     d.Audit,
		log:       d.Logger,
		now:       d.Now,
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) GetConfiguration(ctx context.Context, p *auth.Principal, unitID string) (unitconfig.Lookup, error) {
	if err := p.Require("overtime.get_configuration", auth.PermConfigRead); err != nil {
		return unitconfig.Lookup{}, err
	}
	return s.configs.Get(ctx, unitID)
}

func (s *Service) SetConfiguration(ctx context.Context, p *auth.Principal, unitID string, standardMonthlyHours, overtimePayPercent float64) (unitconfig.Lookup, error) {
	const op = "overtime.set_configuration"
	if err := p.Require(op, auth.PermConfigWrite); err != nil {
		return unitconfig.Lookup{}, err
	}
	before, err := s.configs.Get(ctx, unitID)
	if err != nil {
		return unitconfig.Lookup{}, err
	}
	stored, err := s.configs.Set(ctx, unitID, standardMonthlyHours, overtimePayPercent)
	if err != nil {
		return unitconfig.Lookup{}, err
	}
	after := unitconfig.Found(stored)
	var beforeState any
	if !before.IsDefault() {
		beforeState = before
	}
	s.record(ctx, p, audit.ActionConfigurationSet, "unit_configuration", stored.UnitID, beforeState, after)
	return after, nil
}

func (s *Service) GetBalances(ctx context.Context, p *auth.Principal, employeeID string, filter ledger.Filter) ([]balance.PeriodBalance, error) {
	if err := p.RequireEmployeeAccess("overtime.get_balances", employeeID, auth.PermBalancesReadOwn, auth.PermBalancesReadAll); err != nil {
		return nil, err
	}
	return s.ledger.List(ctx, employeeID, filter)
}

// Recompute rebuilds the employee's open balances from their time entries.
func (s *Service) Recompute(ctx context.Context, p *auth.Principal, employeeID string, excluded []balance.Period) ([]balance.PeriodBalance, error) {
	if err := p.Require("overtime.recompute", auth.PermBalancesWrite); err != nil {
		return nil, err
	}
	rows, err := s.Rebuild(ctx, employeeID, excluded)
	if err != nil {
		return nil, err
	}
	s.record(ctx, p, audit.ActionRecompute, "employee", employeeID, nil, map[string]any{"periods": len(rows), "excluded": excluded})
	return rows, nil
}

// Rebuild is Recompute for trusted callers such as the job queue and the CLI.
// Calls for the same employee run one at a time, and each reads the time
// entries only after taking the employee lock.
func (s *Service) Rebuild(ctx context.Context, employeeID string, excluded []balance.Period) ([]balance.PeriodBalance, error) {
	const op = "overtime.recompute"
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, errs.Validation(op, "employeeId is required")
	}
	log := requestctx.Logger(ctx, s.log).With(zap.String("employeeId", employeeID))

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Acquire(ctx, "employee:"+employeeID)
	if err != nil {
		return nil, errs.Store(op, fmt.Errorf("acquire employee lock: %w", err))
	}
	defer unlock()

	lookup, err := s.configs.Get(ctx, emp.UnitID)
	if err != nil {
		return nil, err
	}
	totals, err := s.entries.MonthlyTotals(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	anchor, anchored, err := s.ledger.LatestClosed(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	opts := []balance.ChainOption{balance.WithExcluded(excluded...)}
	var after *balance.Period
	if anchored {
		ap := anchor.Period()
		after = &ap
		totals = openTotals(totals, ap)
		opts = append(opts, balance.WithOpeningCarry(anchor.BalanceHours))
	}

	rows, err := balance.RecomputeChain(employeeID, totals, lookup.Config, opts...)
	if err != nil {
		return nil, err
	}
	stamp := s.now().UTC()
	for i := range rows {
		rows[i].ComputedAt = stamp
	}
	if err := s.ledger.ReplaceOpen(ctx, employeeID, after, rows); err != nil {
		return nil, err
	}

	log.Info("balances recomputed",
		zap.Int("periods", len(rows)),
		zap.Bool("anchored", anchored),
		zap.Bool("defaultConfiguration", lookup.IsDefault()),
	)
	return rows, nil
}

// ClosePeriod freezes one stored period. Closing an already closed period is
// a no-op.
func (s *Service) ClosePeriod(ctx context.Context, p *auth.Principal, employeeID string, year, month int) (balance.PeriodBalance, error) {
	const op = "overtime.close_period"
	if err := p.Require(op, auth.PermPeriodsClose); err != nil {
		return balance.PeriodBalance{}, err
	}
	period := balance.NewPeriod(year, month)
	if !period.Valid() {
		return balance.PeriodBalance{}, errs.Validation(op, "invalid period")
	}

	unlock, err := s.locker.Acquire(ctx, "employee:"+employeeID)
	if err != nil {
		return balance.PeriodBalance{}, errs.Store(op, fmt.Errorf("acquire employee lock: %w", err))
	}
	defer unlock()

	row, err := s.ledger.Close(ctx, employeeID, period)
	if err != nil {
		return balance.PeriodBalance{}, err
	}
	s.record(ctx, p, audit.ActionPeriodClose, "period_balance", employeeID+"/"+period.String(), nil, row)
	return row, nil
}

// UnitBalances lists every stored balance of a unit for one period.
func (s *Service) UnitBalances(ctx context.Context, p *auth.Principal, unitID string, period balance.Period) ([]balance.PeriodBalance, error) {
	if err := p.Require("overtime.unit_balances", auth.PermReportsRead); err != nil {
		return nil, err
	}
	return s.ledger.ListByUnit(ctx, unitID, period)
}

func (s *Service) record(ctx context.Context, p *auth.Principal, action, entityType, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	evt := audit.Event{
		ActorID:    p.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestctx.GetRequestID(ctx),
	}
	if err := s.audit.Record(ctx, evt, before, after); err != nil {
		requestctx.Logger(ctx, s.log).Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

// openTotals keeps the months after the anchor and makes sure the month right
// after it is present, so a gap following a closed period still counts.
func openTotals(totals []balance.PeriodHours, anchor balance.Period) []balance.PeriodHours {
	out := make([]balance.PeriodHours, 0, len(totals)+1)
	hasNext := false
	for _, t := range totals {
		if !anchor.Before(t.Period) {
			continue
		}
		if t.Period == anchor.Next() {
			hasNext = true
		}
		out = append(out, t)
	}
	if len(out) > 0 && !hasNext {
		out = append(out, balance.PeriodHours{Period: anchor.Next()})
	}
	return out
}
