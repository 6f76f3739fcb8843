package core

import (
	"testing"

	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateByWeek(t *testing.T) {
	daily := make([]schema.Point, 7)
	for i := range daily {
		daily[i] = schema.Point{Date: day(i), Original: schema.RatePtr(float64(i + 1))}
	}
	daily[2].VariantA = schema.RatePtr(4)
	daily[4].VariantA = schema.RatePtr(8)

	weekly := AggregateByWeek(daily)
	require.Len(t, weekly, 2)

	// Jan 1-6 share week 1; Sunday Jan 7 starts week 2.
	assert.Equal(t, "2024-W01", schema.WeekKey(weekly[0].Date))
	assert.Equal(t, day(0), weekly[0].Date)
	assert.InDelta(t, 3.5, *weekly[0].Original, 1e-9)
	assert.InDelta(t, 6.0, *weekly[0].VariantA, 1e-9)
	assert.Nil(t, weekly[0].VariantB)

	assert.Equal(t, "2024-W02", schema.WeekKey(weekly[1].Date))
	assert.Equal(t, day(6), weekly[1].Date)
	assert.InDelta(t, 7.0, *weekly[1].Original, 1e-9)
	assert.Nil(t, weekly[1].VariantA)
}

func TestAggregateByWeekDeterministic(t *testing.T) {
	daily := make([]schema.Point, 20)
	for i := range daily {
		daily[i] = schema.Point{Date: day(i), VariantB: schema.RatePtr(float64(i % 5))}
	}
	assert.Equal(t, AggregateByWeek(daily), AggregateByWeek(daily))
	assert.Empty(t, AggregateByWeek(nil))
}

func TestAggregateByWeekUnsortedInput(t *testing.T) {
	daily := []schema.Point{
		{Date: day(8), Original: schema.RatePtr(2)},
		{Date: day(1), Original: schema.RatePtr(4)},
		{Date: day(0), Original: schema.RatePtr(6)},
	}
	weekly := AggregateByWeek(daily)
	require.Len(t, weekly, 2)
	assert.Equal(t, day(0), weekly[0].Date, "bucket date is the earliest member")
	assert.InDelta(t, 5.0, *weekly[0].Original, 1e-9)
	assert.Equal(t, day(8), weekly[1].Date)
}

