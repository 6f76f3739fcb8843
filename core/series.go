package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/abtrend/schema"
)

// BuildDailySeries turns raw day records into a sorted daily rate series.
// Dates are parsed as UTC midnight. When two records share a date, the later
// record in the input wins.
func BuildDailySeries(raw schema.RawDataset, ids schema.VariantIDs) ([]schema.Point, error) {
	byDate := make(map[int64]schema.Point, len(raw.Data))
	for i, day := range raw.Data {
		ts, err := schema.ParseDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p := schema.Point{Date: ts}
		for _, k := range schema.AllVariants {
			id, ok := ids[k]
			if !ok {
				continue
			}
			p.SetRate(k, CalcRate(day.Visits[id], day.Conversions[id]))
		}
		byDate[ts] = p
	}

	series := make([]schema.Point, 0, len(byDate))
	for _, p := range byDate {
		series = append(series, p)
	}
	slices.SortFunc(series, func(a, b schema.Point) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return series, nil
}

// BuildBaseSeries derives the daily and weekly series for a dataset.
func BuildBaseSeries(ds *schema.Dataset) (BaseSeries, error) {
	daily, err := BuildDailySeries(ds.Raw, ds.IDs)
	if err != nil {
		return BaseSeries{}, err
	}
	return BaseSeries{
		Source: ds.Fingerprint,
		Daily:  daily,
		Weekly: AggregateByWeek(daily),
	}, nil
}
