package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecorderFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	require.NoError(t, rec.Record(ctx, Event{ActorID: "u1", Action: ActionConfigurationSet, EntityType: "unit", EntityID: "ATC"}, nil, map[string]float64{"standardMonthlyHours": 160}))
	require.NoError(t, rec.Record(ctx, Event{ActorID: "u2", Action: ActionPeriodClose, EntityType: "period_balance", EntityID: "e1/2024-01"}, nil, nil))

	events, err := rec.List(ctx, Filter{Action: ActionConfigurationSet}, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ATC", events[0].EntityID)
	assert.NotEmpty(t, events[0].ID)

	var after map[string]float64
	require.NoError(t, json.Unmarshal(events[0].After, &after))
	assert.Equal(t, 160.0, after["standardMonthlyHours"])

	all, err := rec.List(ctx, Filter{}, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	none, err := rec.List(ctx, Filter{}, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
