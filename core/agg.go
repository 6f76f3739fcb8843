package core

import (
	"cmp"
	"slices"

	"github.com/huangsam/abtrend/schema"
	"gonum.org/v1/gonum/stat"
)

// weekBucket collects the members of one week while aggregating.
type weekBucket struct {
	dates  []int64
	values map[schema.VariantKey][]float64
}

// AggregateByWeek buckets a daily series by week key and averages each
// variant over its non-empty values. The bucket date is its earliest member.
func AggregateByWeek(daily []schema.Point) []schema.Point {
	buckets := make(map[string]*weekBucket)

	for _, p := range daily {
		key := schema.WeekKey(p.Date)
		b, ok := buckets[key]
		if !ok {
			b = &weekBucket{values: make(map[schema.VariantKey][]float64, len(schema.AllVariants))}
			buckets[key] = b
		}
		b.dates = append(b.dates, p.Date)
		for _, k := range schema.AllVariants {
			if v := p.Rate(k); v != nil {
				b.values[k] = append(b.values[k], *v)
			}
		}
	}

	result := make([]schema.Point, 0, len(buckets))
	for _, b := range buckets {
		point := schema.Point{Date: slices.Min(b.dates)}
		for _, k := range schema.AllVariants {
			point.SetRate(k, meanOrNil(b.values[k]))
		}
		result = append(result, point)
	}

	slices.SortFunc(result, func(a, b schema.Point) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return result
}

// meanOrNil returns the arithmetic mean, or nil for an empty list.
func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}
