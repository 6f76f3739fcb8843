package core

import (
	"context"
	"testing"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/iocache"
	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleConfig returns a validated config over the embedded sample dataset.
func sampleConfig() *contract.Config {
	return &contract.Config{
		Granularity:  schema.DayGranularity,
		Selection:    schema.AllSelected(),
		Theme:        schema.LightTheme,
		LineStyle:    schema.LineStyleLine,
		ZoomFactor:   schema.DefaultZoomFactor,
		MinRangeDays: schema.DefaultMinZoomDays,
		Precision:    contract.DefaultPrecision,
		Output:       schema.JSONOut,
		ExportDir:    ".",
		PixelRatio:   1,
		ChartWidth:   320,
		ChartHeight:  160,
	}
}

func noCacheManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSeriesStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func TestGetSeriesResultsSample(t *testing.T) {
	result, _, err := GetSeriesResults(context.Background(), sampleConfig(), noCacheManager())
	require.NoError(t, err)

	require.Len(t, result.Points, 35)
	assert.Equal(t, day(0), result.FullDomain.Start)
	assert.Equal(t, day(34), result.FullDomain.End)
	assert.NotEmpty(t, result.Source)
}

func TestGetSeriesResultsSelectionAndWeeks(t *testing.T) {
	cfg := sampleConfig()
	cfg.Selection = schema.NewSelection(schema.VariantC)
	result, _, err := GetSeriesResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Points, 29, "variant C is missing the first and last three days")
	assert.Equal(t, day(3), result.Points[0].Date)
	assert.Equal(t, day(31), result.FullDomain.End)

	cfg = sampleConfig()
	cfg.Granularity = schema.WeekGranularity
	result, _, err = GetSeriesResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, result.Points, 6)
	assert.Equal(t, day(0), result.Points[0].Date)
}

func TestGetViewResultsZoom(t *testing.T) {
	cfg := sampleConfig()
	cfg.ZoomOps = []string{contract.ZoomInOp}
	view, _, err := GetViewResults(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.True(t, view.IsZoomedIn)
	assert.Equal(t, 51*schema.OneDayMillis/2, view.EffectiveDomain.Width())
	assert.Len(t, view.Points, 35)
	assert.Less(t, len(view.Visible), 35)

	cfg.ZoomOps = []string{contract.ZoomInOp, contract.ZoomResetOp}
	view, _, err = GetViewResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.False(t, view.IsZoomedIn)
}

func TestApplyZoomOpsUnknown(t *testing.T) {
	chart := NewChartState(testBase(), ChartOptions{})
	err := ApplyZoomOps(chart, []string{contract.ZoomInOp, "sideways"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestGetTooltipResults(t *testing.T) {
	cfg := sampleConfig()
	_, _, err := GetTooltipResults(context.Background(), cfg, nil)
	require.ErrorIs(t, err, ErrNoInspectDate)

	cfg.InspectAt = day(2) + 5*3_600_000
	cfg.HasInspectAt = true
	result, _, err := GetTooltipResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2), result.Date)
	require.Len(t, result.Items, 3, "variant C has no data on Jan 3")
	assert.Equal(t, schema.VariantA, result.Items[0].Key)
	assert.True(t, result.Items[0].Winner)
	assert.Equal(t, "9.95%", result.Items[0].Formatted)
}

func TestGetTooltipResultsNearestBeyondRange(t *testing.T) {
	cfg := sampleConfig()
	cfg.InspectAt = day(100)
	cfg.HasInspectAt = true
	result, _, err := GetTooltipResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, day(34), result.Date)
}

func TestGetTooltipResultsZoomed(t *testing.T) {
	cfg := sampleConfig()
	cfg.ZoomOps = []string{contract.ZoomInOp} // day 4.25 .. day 29.75
	cfg.InspectAt = day(0)
	cfg.HasInspectAt = true
	result, _, err := GetTooltipResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, day(5), result.Date)

	cfg.ZoomOps = []string{"sideways"}
	_, _, err = GetTooltipResults(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestLoadChartErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadChart(ctx, sampleConfig(), nil)
	require.ErrorIs(t, err, context.Canceled)

	cfg := sampleConfig()
	cfg.DataPath = "/nonexistent/data.json"
	_, err = LoadChart(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read dataset")
}

func TestLoadChartVariantOverride(t *testing.T) {
	cfg := sampleConfig()
	cfg.VariantIDOverrides = schema.VariantIDs{schema.VariantC: "99999"}
	cfg.Selection = schema.NewSelection(schema.VariantC)
	chart, err := LoadChart(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, chart.Series(), 35, "a selection with no data keeps the series untouched")
}

func TestHistoryStore(t *testing.T) {
	assert.Nil(t, historyStore(nil))

	store := &iocache.MockHistoryStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetHistoryStore").Return(store)
	assert.Equal(t, store, historyStore(mgr))
}
