package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/personnel"
	"hourbank/internal/platform/config"
)

func memoryConfig() config.Config {
	return config.Config{
		Addr:                   ":0",
		Environment:            "test",
		StoreDriver:            config.StoreDriverMemory,
		JWTSecret:              "test-secret",
		TokenTTL:               time.Hour,
		DefaultStandardHours:   180,
		DefaultOvertimePercent: 70,
		MaxBodyBytes:           1048576,
		RateLimitPerMinute:     1000,
		LogFormat:              "json",
		JobQueueSize:           8,
	}
}

func TestRecomputeNowRecordsJob(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, memoryConfig(), nil)
	require.NoError(t, err)
	defer app.Close()

	emp, err := app.Services.Employees.Create(ctx, personnel.NewEmployee{Name: "Ayse", Surname: "Kaya", NationalID: "N-1", UnitID: "ACC"})
	require.NoError(t, err)
	for day := 1; day <= 19; day++ {
		_, err := app.Services.Entries.Record(ctx, emp.ID, time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC), 10, "shift")
		require.NoError(t, err)
	}

	rows, err := app.RecomputeNow(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].BalanceHours)

	_, err = app.RecomputeNow(ctx, "ghost")
	assert.Error(t, err)

	snap := app.Metrics.Snapshot()
	assert.Equal(t, uint64(2), snap["recomputesTotal"])
	assert.Equal(t, uint64(1), snap["recomputeErrorsTotal"])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWTSecret = ""
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
