package balance

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/unitconfig"
)

var acc = unitconfig.Config{UnitID: "ACC", StandardMonthlyHours: 180, OvertimePayPercent: 70}

func TestComputePeriodOvertimeAndDeficitAreExclusive(t *testing.T) {
	for _, worked := range []float64{0, 12.5, 179.75, 180, 180.25, 190, 260} {
		row := ComputePeriod("e1", NewPeriod(2025, 3), worked, acc, 0)
		assert.Equal(t, math.Max(0, worked-180), row.OvertimeHours, "worked=%v", worked)
		assert.Equal(t, math.Max(0, 180-worked), row.DeficitHours, "worked=%v", worked)
		if worked == 180 {
			assert.Zero(t, row.OvertimeHours)
			assert.Zero(t, row.DeficitHours)
		} else {
			assert.True(t, row.OvertimeHours == 0 || row.DeficitHours == 0, "worked=%v", worked)
		}
	}
}

func TestComputePeriodSnapshotsPolicy(t *testing.T) {
	row := ComputePeriod("e1", NewPeriod(2025, 1), 200, acc, -4)
	assert.Equal(t, 180.0, row.StandardHours)
	assert.Equal(t, 70.0, row.OvertimePayPercent)
	assert.Equal(t, "ACC", row.UnitID)
	assert.Equal(t, -4.0, row.CarriedFromPrevious)
	assert.Equal(t, 16.0, row.BalanceHours)
}

func TestRecomputeChainExample(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{
		{Period: NewPeriod(2025, 1), WorkedHours: 190},
		{Period: NewPeriod(2025, 2), WorkedHours: 170},
	}, acc)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 10.0, rows[0].OvertimeHours)
	assert.Equal(t, 10.0, rows[0].BalanceHours)
	assert.Equal(t, 10.0, rows[1].DeficitHours)
	assert.Equal(t, 10.0, rows[1].CarriedFromPrevious)
	assert.Equal(t, 0.0, rows[1].BalanceHours)
}

func TestRecomputeChainSortsInput(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{
		{Period: NewPeriod(2025, 2), WorkedHours: 170},
		{Period: NewPeriod(2024, 12), WorkedHours: 185},
		{Period: NewPeriod(2025, 1), WorkedHours: 190},
	}, acc)
	require.NoError(t, err)

	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row.Period().String())
	}
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02"}, got)
	assert.Equal(t, 5.0, rows[2].BalanceHours)
}

func TestRecomputeChainIsIdempotent(t *testing.T) {
	input := []PeriodHours{
		{Period: NewPeriod(2025, 5), WorkedHours: 150},
		{Period: NewPeriod(2025, 3), WorkedHours: 201.5},
		{Period: NewPeriod(2025, 4), WorkedHours: 180},
	}
	first, err := RecomputeChain("e1", input, acc, WithOpeningCarry(3))
	require.NoError(t, err)
	second, err := RecomputeChain("e1", input, acc, WithOpeningCarry(3))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("recompute not idempotent (-first +second):\n%s", diff)
	}
}

func TestRecomputeChainCarryEqualsRunningSum(t *testing.T) {
	worked := []float64{190, 170, 181, 0, 240, 179.5, 180, 200}
	input := make([]PeriodHours, 0, len(worked))
	p := NewPeriod(2024, 9)
	for _, w := range worked {
		input = append(input, PeriodHours{Period: p, WorkedHours: w})
		p = p.Next()
	}

	rows, err := RecomputeChain("e1", input, acc)
	require.NoError(t, err)
	require.Len(t, rows, len(worked))

	sum := 0.0
	for i, row := range rows {
		sum += row.OvertimeHours - row.DeficitHours
		assert.InDelta(t, sum, row.BalanceHours, 1e-9, "period %d", i)
	}
}

func TestRecomputeChainFillsGapsWithZeroHours(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{
		{Period: NewPeriod(2025, 1), WorkedHours: 200},
		{Period: NewPeriod(2025, 3), WorkedHours: 180},
	}, acc)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	gap := rows[1]
	assert.Equal(t, NewPeriod(2025, 2), gap.Period())
	assert.Zero(t, gap.WorkedHours)
	assert.Equal(t, 180.0, gap.DeficitHours)
	assert.Equal(t, -160.0, gap.BalanceHours)
	assert.Equal(t, -160.0, rows[2].BalanceHours)
}

func TestRecomputeChainExcludedGapPassesCarry(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{
		{Period: NewPeriod(2025, 1), WorkedHours: 200},
		{Period: NewPeriod(2025, 3), WorkedHours: 180},
	}, acc, WithExcluded(NewPeriod(2025, 2)))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, NewPeriod(2025, 3), rows[1].Period())
	assert.Equal(t, 20.0, rows[1].CarriedFromPrevious)
	assert.Equal(t, 20.0, rows[1].BalanceHours)
}

func TestRecomputeChainAcrossYearBoundary(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{
		{Period: NewPeriod(2024, 11), WorkedHours: 180},
		{Period: NewPeriod(2025, 1), WorkedHours: 180},
	}, acc, WithExcluded(NewPeriod(2024, 12)))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, NewPeriod(2025, 1), rows[1].Period())
}

func TestRecomputeChainFirstPeriodStartsAtZero(t *testing.T) {
	rows, err := RecomputeChain("e1", []PeriodHours{{Period: NewPeriod(2025, 6), WorkedHours: 175}}, acc)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].CarriedFromPrevious)
	assert.Equal(t, -5.0, rows[0].BalanceHours)
}

func TestRecomputeChainEmptyInput(t *testing.T) {
	rows, err := RecomputeChain("e1", nil, acc)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecomputeChainRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input []PeriodHours
		cfg   unitconfig.Config
	}{
		{
			name:  "duplicate period",
			input: []PeriodHours{{Period: NewPeriod(2025, 1), WorkedHours: 1}, {Period: NewPeriod(2025, 1), WorkedHours: 2}},
			cfg:   acc,
		},
		{
			name:  "month out of range",
			input: []PeriodHours{{Period: NewPeriod(2025, 13), WorkedHours: 1}},
			cfg:   acc,
		},
		{
			name:  "negative hours",
			input: []PeriodHours{{Period: NewPeriod(2025, 1), WorkedHours: -1}},
			cfg:   acc,
		},
		{
			name:  "zero standard",
			input: []PeriodHours{{Period: NewPeriod(2025, 1), WorkedHours: 1}},
			cfg:   unitconfig.Config{UnitID: "X"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecomputeChain("e1", tc.input, tc.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrValidation))
		})
	}
}

func TestPeriodNextAndBefore(t *testing.T) {
	assert.Equal(t, NewPeriod(2026, 1), NewPeriod(2025, 12).Next())
	assert.True(t, NewPeriod(2024, 12).Before(NewPeriod(2025, 1)))
	assert.False(t, NewPeriod(2025, 1).Before(NewPeriod(2025, 1)))
	assert.Equal(t, "2025-07", NewPeriod(2025, 7).String())
}
