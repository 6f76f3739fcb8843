package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/abtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation with root defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Granularity:  string(schema.DayGranularity),
		Select:       "all",
		Theme:        string(schema.LightTheme),
		LineStyle:    string(schema.LineStyleLine),
		ZoomFactor:   schema.DefaultZoomFactor,
		MinRangeDays: schema.DefaultMinZoomDays,
		Precision:    DefaultPrecision,
		Output:       string(schema.TextOut),
		Color:        "yes",
		PixelRatio:   DefaultPixelRatio,
		CacheBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "week granularity", mutate: func(in *ConfigRawInput) { in.Granularity = "WEEK" }},
		{name: "invalid granularity", mutate: func(in *ConfigRawInput) { in.Granularity = "month" }, expectError: true},
		{name: "custom selection", mutate: func(in *ConfigRawInput) { in.Select = "original,b" }},
		{name: "empty selection list", mutate: func(in *ConfigRawInput) { in.Select = ",," }, expectError: true},
		{name: "invalid theme", mutate: func(in *ConfigRawInput) { in.Theme = "sepia" }, expectError: true},
		{name: "invalid line style", mutate: func(in *ConfigRawInput) { in.LineStyle = "dotted" }, expectError: true},
		{name: "zoom factor zero", mutate: func(in *ConfigRawInput) { in.ZoomFactor = 0 }, expectError: true},
		{name: "zoom factor one", mutate: func(in *ConfigRawInput) { in.ZoomFactor = 1 }, expectError: true},
		{name: "negative min range", mutate: func(in *ConfigRawInput) { in.MinRangeDays = -1 }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "precision zero", mutate: func(in *ConfigRawInput) { in.Precision = 0 }, expectError: true},
		{name: "parquet output", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "pixel ratio too high", mutate: func(in *ConfigRawInput) { in.PixelRatio = 5 }, expectError: true},
		{name: "zoom ops", mutate: func(in *ConfigRawInput) { in.Zoom = "in, in ,out,reset" }},
		{name: "bad zoom op", mutate: func(in *ConfigRawInput) { in.Zoom = "in,sideways" }, expectError: true},
		{name: "inspect date", mutate: func(in *ConfigRawInput) { in.At = "2024-01-03" }},
		{name: "bad inspect date", mutate: func(in *ConfigRawInput) { in.At = "yesterday" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidatePopulatesConfig(t *testing.T) {
	input := validInput()
	input.Granularity = "week"
	input.Select = "a,c"
	input.Theme = "dark"
	input.LineStyle = "smooth"
	input.Zoom = "in,out"
	input.At = "2024-01-03"
	input.VariantAID = " 42 "
	input.Color = "no"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.WeekGranularity, cfg.Granularity)
	assert.Equal(t, schema.NewSelection(schema.VariantA, schema.VariantC), cfg.Selection)
	assert.Equal(t, schema.DarkTheme, cfg.Theme)
	assert.Equal(t, schema.LineStyleSmooth, cfg.LineStyle)
	assert.Equal(t, []string{ZoomInOp, ZoomOutOp}, cfg.ZoomOps)
	assert.True(t, cfg.HasInspectAt)
	assert.Equal(t, int64(1704240000000), cfg.InspectAt)
	assert.Equal(t, schema.VariantIDs{schema.VariantA: "42"}, cfg.VariantIDOverrides)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, DefaultChartWidth, cfg.ChartWidth)
	assert.Equal(t, DefaultChartHeight, cfg.ChartHeight)
}

func TestValidateBackendConfigs(t *testing.T) {
	t.Run("same default sqlite file is rejected", func(t *testing.T) {
		input := validInput()
		input.HistoryBackend = "sqlite"
		input.CacheDBConnect = GetHistoryDBFilePath()
		err := ProcessAndValidate(&Config{}, input)
		assert.ErrorContains(t, err, "different SQLite database files")
	})

	t.Run("distinct sqlite files are fine", func(t *testing.T) {
		dir := t.TempDir()
		input := validInput()
		input.CacheDBConnect = filepath.Join(dir, "cache.db")
		input.HistoryBackend = "sqlite"
		input.HistoryDBConnect = filepath.Join(dir, "history.db")
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	})

	t.Run("history disabled by default", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.Equal(t, schema.DatabaseBackend(""), cfg.HistoryBackend)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/abtrend", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/abtrend", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=abtrend", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		ZoomOps:            []string{ZoomInOp},
		VariantIDOverrides: schema.VariantIDs{schema.VariantB: "7"},
	}
	clone := cfg.Clone()
	clone.ZoomOps[0] = ZoomOutOp
	clone.VariantIDOverrides[schema.VariantB] = "8"

	assert.Equal(t, ZoomInOp, cfg.ZoomOps[0])
	assert.Equal(t, "7", cfg.VariantIDOverrides[schema.VariantB])
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "out/abtrend"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/abtrend", profile.Prefix)
}

func TestRevalidateChart(t *testing.T) {
	base := &Config{
		Granularity: schema.DayGranularity,
		Selection:   schema.AllSelected(),
		Theme:       schema.LightTheme,
		LineStyle:   schema.LineStyleLine,
	}

	cfg := base.Clone()
	require.NoError(t, RevalidateChart(cfg, ChartOverrides{}))
	assert.Equal(t, base, cfg, "empty overrides keep the base")

	cfg = base.Clone()
	require.NoError(t, RevalidateChart(cfg, ChartOverrides{
		DataPath:    " data.json ",
		Granularity: "WEEK",
		Select:      "a,c",
		Theme:       "dark",
		LineStyle:   "area",
		Zoom:        "in,out",
		At:          "2024-01-05",
	}))
	assert.Equal(t, "data.json", cfg.DataPath)
	assert.Equal(t, schema.WeekGranularity, cfg.Granularity)
	assert.Equal(t, schema.NewSelection(schema.VariantA, schema.VariantC), cfg.Selection)
	assert.Equal(t, schema.DarkTheme, cfg.Theme)
	assert.Equal(t, schema.LineStyleArea, cfg.LineStyle)
	assert.Equal(t, []string{ZoomInOp, ZoomOutOp}, cfg.ZoomOps)
	assert.True(t, cfg.HasInspectAt)

	for _, o := range []ChartOverrides{
		{Granularity: "month"},
		{Select: "z"},
		{Theme: "neon"},
		{LineStyle: "dotted"},
		{Zoom: "sideways"},
		{At: "yesterday"},
	} {
		assert.Error(t, RevalidateChart(base.Clone(), o), "%+v", o)
	}
}
