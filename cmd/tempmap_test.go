package cmd

import (
	"testing"

	"github.com/fan-control/fan-control/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsByTemperature(t *testing.T) {
	// GIVEN
	speedPolicy, err := policy.NewSpeedPolicy([]policy.TempMapEntry{
		{Speed: 0, Threshold: 40, HoldTicks: 0},
		{Speed: 1, Threshold: 44, HoldTicks: 5},
		{Speed: 2, Threshold: 49, HoldTicks: 10},
	}, 3)
	require.NoError(t, err)

	// WHEN
	from, values := levelsByTemperature(speedPolicy)

	// THEN
	assert.Equal(t, 35, from)
	assert.Len(t, values, 20)
	// 44°C is not above the threshold of level 1
	assert.Equal(t, 0.0, values[44-from])
	assert.Equal(t, 1.0, values[45-from])
	assert.Equal(t, 1.0, values[49-from])
	assert.Equal(t, 2.0, values[50-from])
	assert.False(t, speedPolicy.State().Initialized)
}
