package unitconfig

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/errs"
)

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Find(context.Context, string) (Config, bool, error) {
	return Config{}, false, f.err
}

func (f *failingStore) Upsert(context.Context, Config) (Config, error) {
	return Config{}, f.err
}

func TestGetMissingReturnsDefault(t *testing.T) {
	svc := NewService(NewMemoryStore(), StandardDefaults())

	lookup, err := svc.Get(context.Background(), "ACC-NORTH")
	require.NoError(t, err)
	assert.True(t, lookup.IsDefault())
	assert.Equal(t, "ACC-NORTH", lookup.Config.UnitID)
	assert.Equal(t, 180.0, lookup.Config.StandardMonthlyHours)
	assert.Equal(t, 70.0, lookup.Config.OvertimePayPercent)
}

func TestSetThenGetReturnsStored(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), StandardDefaults())

	_, err := svc.Set(ctx, "TWR-1", 160, 50)
	require.NoError(t, err)

	lookup, err := svc.Get(ctx, "TWR-1")
	require.NoError(t, err)
	assert.False(t, lookup.IsDefault())
	assert.Equal(t, 160.0, lookup.Config.StandardMonthlyHours)
	assert.Equal(t, 50.0, lookup.Config.OvertimePayPercent)
}

func TestSetRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		standard float64
		percent  float64
	}{
		{name: "zero standard", standard: 0, percent: 70},
		{name: "negative standard", standard: -10, percent: 70},
		{name: "percent below zero", standard: 180, percent: -1},
		{name: "percent above hundred", standard: 180, percent: 100.5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemoryStore()
			svc := NewService(store, StandardDefaults())
			_, err := svc.Set(context.Background(), "APP", tc.standard, tc.percent)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrValidation))

			_, ok, _ := store.Find(context.Background(), "APP")
			assert.False(t, ok, "invalid policy must not be stored")
		})
	}
}

func TestSetAcceptsBoundaries(t *testing.T) {
	svc := NewService(NewMemoryStore(), StandardDefaults())
	_, err := svc.Set(context.Background(), "APP", 0.5, 0)
	require.NoError(t, err)
	_, err = svc.Set(context.Background(), "APP", 200, 100)
	require.NoError(t, err)
}

func TestGetSurfacesStoreFailure(t *testing.T) {
	svc := NewService(&failingStore{err: errors.New("db down")}, StandardDefaults())
	_, err := svc.Get(context.Background(), "APP")
	require.Error(t, err)
	assert.Equal(t, errs.KindStore, errs.KindOf(err))
}

func TestLookupJSON(t *testing.T) {
	payload, err := json.Marshal(Default("ACC", StandardDefaults()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"unitId":"ACC","standardMonthlyHours":180,"overtimePayPercent":70,"isDefault":true}`, string(payload))
}
