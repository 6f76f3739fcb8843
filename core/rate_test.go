package core

import (
	"testing"

	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jan1 = int64(1704067200000) // 2024-01-01 UTC, a Monday

func day(i int) int64 {
	return jan1 + int64(i)*schema.OneDayMillis
}

func i64(v int64) *int64 { return &v }

func TestCalcRate(t *testing.T) {
	tests := []struct {
		name        string
		visits      *int64
		conversions *int64
		want        *float64
	}{
		{"normal", i64(200), i64(30), schema.RatePtr(15)},
		{"zero conversions", i64(50), i64(0), schema.RatePtr(0)},
		{"missing visits", nil, i64(3), nil},
		{"zero visits", i64(0), i64(3), nil},
		{"missing conversions", i64(10), nil, nil},
		{"above one hundred", i64(10), i64(20), schema.RatePtr(200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcRate(tt.visits, tt.conversions)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCalcRateExact(t *testing.T) {
	got := CalcRate(i64(3), i64(1))
	require.NotNil(t, got)
	assert.Equal(t, float64(1)/float64(3)*100, *got)
}

