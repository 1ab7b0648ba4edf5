package balance

import (
	"fmt"
	"math"

	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/unitconfig"
)

// ComputePeriod is pure: the same inputs always produce the same balance.
// ComputedAt is left zero for the caller to stamp.
func ComputePeriod(employeeID string, period Period, workedHours float64, cfg unitconfig.Config, previousCarry float64) PeriodBalance {
	standard := cfg.StandardMonthlyHours
	overtime := math.Max(0, workedHours-standard)
	deficit := math.Max(0, standard-workedHours)
	return PeriodBalance{
		EmployeeID:          employeeID,
		Year:                period.Year,
		Month:               period.Month,
		UnitID:              cfg.UnitID,
		WorkedHours:         workedHours,
		StandardHours:       standard,
		OvertimeHours:       overtime,
		DeficitHours:        deficit,
		BalanceHours:        previousCarry + overtime - deficit,
		CarriedFromPrevious: previousCarry,
		OvertimePayPercent:  cfg.OvertimePayPercent,
	}
}

type chainOptions struct {
	openingCarry float64
	excluded     map[Period]struct{}
}

type ChainOption func(*chainOptions)

// WithOpeningCarry seeds the first period's carry, used when the chain resumes
// after a closed period.
func WithOpeningCarry(carry float64) ChainOption {
	return func(o *chainOptions) {
		o.openingCarry = carry
	}
}

// WithExcluded marks months the caller knows are not reportable (leave of
// absence, transfer). Excluded months produce no row and pass the carry
// through unchanged.
func WithExcluded(periods ...Period) ChainOption {
	return func(o *chainOptions) {
		for _, p := range periods {
			o.excluded[p] = struct{}{}
		}
	}
}

// RecomputeChain folds ComputePeriod over periods in ascending (year, month)
// order. Missing months between the first and last input period count as zero
// worked hours unless excluded.
func RecomputeChain(employeeID string, periods []PeriodHours, cfg unitconfig.Config, opts ...ChainOption) ([]PeriodBalance, error) {
	const op = "balance.recompute_chain"

	options := chainOptions{excluded: map[Period]struct{}{}}
	for _, opt := range opts {
		opt(&options)
	}

	if cfg.StandardMonthlyHours <= 0 || math.IsNaN(cfg.StandardMonthlyHours) {
		return nil, errs.Validation(op, "standard monthly hours must be greater than 0")
	}
	if math.IsNaN(options.openingCarry) || math.IsInf(options.openingCarry, 0) {
		return nil, errs.Validation(op, "opening carry must be a finite number")
	}

	worked := make(map[Period]float64, len(periods))
	order := make([]Period, 0, len(periods))
	for _, ph := range periods {
		if !ph.Period.Valid() {
			return nil, errs.Validation(op, fmt.Sprintf("invalid period %d-%d", ph.Period.Year, ph.Period.Month))
		}
		if ph.WorkedHours < 0 || math.IsNaN(ph.WorkedHours) || math.IsInf(ph.WorkedHours, 0) {
			return nil, errs.Validation(op, fmt.Sprintf("worked hours for %s must be a non-negative number", ph.Period))
		}
		if _, dup := worked[ph.Period]; dup {
			return nil, errs.Validation(op, fmt.Sprintf("duplicate period %s", ph.Period))
		}
		worked[ph.Period] = ph.WorkedHours
		order = append(order, ph.Period)
	}
	if len(order) == 0 {
		return []PeriodBalance{}, nil
	}
	SortAscending(order)

	first, last := order[0], order[len(order)-1]
	out := make([]PeriodBalance, 0, len(order))
	carry := options.openingCarry
	for p := first; !last.Before(p); p = p.Next() {
		if _, skip := options.excluded[p]; skip {
			continue
		}
		row := ComputePeriod(employeeID, p, worked[p], cfg, carry)
		out = append(out, row)
		carry = row.BalanceHours
	}
	return out, nil
}
