package timeentry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

func TestRecordValidatesHours(t *testing.T) {
	svc := NewService(NewMemoryStore())
	for _, hours := range []float64{0, -2, 24.5} {
		_, err := svc.Record(context.Background(), "e1", day(2025, 1, 3), hours, "")
		assert.True(t, errors.Is(err, errs.ErrValidation), "hours=%v", hours)
	}
	_, err := svc.Record(context.Background(), "e1", time.Time{}, 8, "")
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestRecordTruncatesToDay(t *testing.T) {
	entry, err := NewService(NewMemoryStore()).Record(context.Background(), "e1", day(2025, 1, 3), 8, " night shift ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), entry.WorkDate)
	assert.Equal(t, "night shift", entry.Description)
}

func TestMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	for _, in := range []struct {
		at    time.Time
		hours float64
	}{
		{day(2025, 2, 1), 12},
		{day(2025, 1, 5), 8},
		{day(2025, 1, 6), 7.5},
		{day(2024, 12, 31), 10},
	} {
		_, err := svc.Record(ctx, "e1", in.at, in.hours, "")
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, "e2", day(2025, 1, 5), 8, "")
	require.NoError(t, err)

	totals, err := svc.MonthlyTotals(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []balance.PeriodHours{
		{Period: balance.NewPeriod(2024, 12), WorkedHours: 10},
		{Period: balance.NewPeriod(2025, 1), WorkedHours: 15.5},
		{Period: balance.NewPeriod(2025, 2), WorkedHours: 12},
	}, totals)
}

func TestListFiltersAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	first, err := svc.Record(ctx, "e1", day(2025, 1, 5), 8, "")
	require.NoError(t, err)
	_, err = svc.Record(ctx, "e1", day(2025, 2, 5), 8, "")
	require.NoError(t, err)

	jan, err := svc.List(ctx, "e1", Filter{Year: 2025, Month: 1})
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.Equal(t, first.ID, jan[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
