package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodDuration(t *testing.T) {
	for period, want := range map[string]int{
		Period7Days:  7,
		Period30Days: 30,
		Period90Days: 90,
		Period1Year:  365,
	} {
		got, err := PeriodDuration(period)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := PeriodDuration("14d")
	assert.Error(t, err)
}

func TestPeriodWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	start, end, prevStart, prevEnd, err := PeriodWindow(Period30Days, now)
	require.NoError(t, err)

	assert.Equal(t, now, end)
	assert.Equal(t, now.AddDate(0, 0, -30), start)
	assert.Equal(t, start, prevEnd)
	assert.Equal(t, now.AddDate(0, 0, -60), prevStart)

	_, _, _, _, err = PeriodWindow("bogus", now)
	assert.Error(t, err)
}

func TestGrowthRate(t *testing.T) {
	assert.InDelta(t, 50.0, GrowthRate(150, 100), 0.001)
	assert.InDelta(t, -25.0, GrowthRate(75, 100), 0.001)

	// Empty baseline is floored to 1 so growth stays finite
	assert.InDelta(t, 4900.0, GrowthRate(50, 0), 0.001)
	assert.InDelta(t, 0.0, GrowthRate(1, 0), 0.001)
}
