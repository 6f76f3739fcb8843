package contract

import (
	"fmt"
	"maps"
	"strings"

	"github.com/huangsam/abtrend/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 2
	MaxPrecision        = 4
	DefaultPixelRatio   = 2
	MaxPixelRatio       = 4
	DefaultHistoryLimit = 20
	DefaultChartWidth   = 960
	DefaultChartHeight  = 420
)

// Zoom operations accepted by --zoom and session scripts.
const (
	ZoomInOp    = "in"
	ZoomOutOp   = "out"
	ZoomResetOp = "reset"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a chart session.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath     string
	Granularity  schema.Granularity
	Selection    schema.Selection
	Theme        schema.ThemeName
	LineStyle    schema.LineStyle
	ZoomFactor   float64
	MinRangeDays float64
	ZoomOps      []string
	InspectAt    int64
	HasInspectAt bool
	ScriptPath   string

	// VariantIDOverrides replaces dataset variation ids for A/B/C when set
	VariantIDOverrides schema.VariantIDs

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	ExportDir    string
	PixelRatio   int
	ChartWidth   int
	ChartHeight  int
	HistoryLimit int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Data             string  `mapstructure:"data"`
	Granularity      string  `mapstructure:"granularity"`
	Select           string  `mapstructure:"select"`
	Theme            string  `mapstructure:"theme"`
	LineStyle        string  `mapstructure:"line-style"`
	ZoomFactor       float64 `mapstructure:"zoom-factor"`
	MinRangeDays     float64 `mapstructure:"min-range-days"`
	VariantAID       string  `mapstructure:"variant-a-id"`
	VariantBID       string  `mapstructure:"variant-b-id"`
	VariantCID       string  `mapstructure:"variant-c-id"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	ExportDir        string  `mapstructure:"export-dir"`
	PixelRatio       int     `mapstructure:"pixel-ratio"`
	ChartWidth       int     `mapstructure:"chart-width"`
	ChartHeight      int     `mapstructure:"chart-height"`
	CacheBackend     string  `mapstructure:"cache-backend"`
	CacheDBConnect   string  `mapstructure:"cache-db-connect"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`

	// --- Fields from viewCmd.Flags() ---
	Zoom string `mapstructure:"zoom"`

	// --- Fields from inspectCmd.Flags() ---
	At string `mapstructure:"at"`

	// --- Fields from sessionCmd.Flags() ---
	Script string `mapstructure:"script"`

	// --- Fields from historyListCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ZoomOps != nil {
		clone.ZoomOps = make([]string, len(c.ZoomOps))
		copy(clone.ZoomOps, c.ZoomOps)
	}
	if c.VariantIDOverrides != nil {
		clone.VariantIDOverrides = make(schema.VariantIDs, len(c.VariantIDOverrides))
		maps.Copy(clone.VariantIDOverrides, c.VariantIDOverrides)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateChartInputs(cfg, input); err != nil {
		return err
	}
	if err := validateExportInputs(cfg, input); err != nil {
		return err
	}
	if err := processZoomOps(cfg, input); err != nil {
		return err
	}
	if err := processInspectAt(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share a SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DataPath = strings.TrimSpace(input.Data)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ScriptPath = strings.TrimSpace(input.Script)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	cfg.HistoryLimit = input.Limit
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("limit cannot be negative (received %d)", input.Limit)
	}

	return nil
}

// validateChartInputs processes granularity, selection, theme, style, zoom and variant ids.
func validateChartInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Granularity = schema.Granularity(strings.ToLower(input.Granularity))
	if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
		return fmt.Errorf("invalid granularity '%s'. must be day, week", input.Granularity)
	}

	sel, err := schema.ParseSelection(input.Select)
	if err != nil {
		return fmt.Errorf("invalid --select value: %w", err)
	}
	cfg.Selection = sel

	cfg.Theme = schema.ThemeName(strings.ToLower(input.Theme))
	if _, ok := schema.ValidThemes[cfg.Theme]; !ok {
		return fmt.Errorf("invalid theme '%s'. must be light, dark", input.Theme)
	}

	cfg.LineStyle = schema.LineStyle(strings.ToLower(input.LineStyle))
	if _, ok := schema.ValidLineStyles[cfg.LineStyle]; !ok {
		return fmt.Errorf("invalid line style '%s'. must be line, smooth, area", input.LineStyle)
	}

	if input.ZoomFactor <= 0 || input.ZoomFactor >= 1 {
		return fmt.Errorf("zoom factor must be greater than 0 and less than 1 (received %g)", input.ZoomFactor)
	}
	cfg.ZoomFactor = input.ZoomFactor

	if input.MinRangeDays <= 0 {
		return fmt.Errorf("min range days must be greater than 0 (received %g)", input.MinRangeDays)
	}
	cfg.MinRangeDays = input.MinRangeDays

	overrides := schema.VariantIDs{}
	for k, v := range map[schema.VariantKey]string{
		schema.VariantA: input.VariantAID,
		schema.VariantB: input.VariantBID,
		schema.VariantC: input.VariantCID,
	} {
		if id := strings.TrimSpace(v); id != "" {
			overrides[k] = id
		}
	}
	cfg.VariantIDOverrides = overrides

	return nil
}

// validateExportInputs processes the PNG export settings.
func validateExportInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.ExportDir = strings.TrimSpace(input.ExportDir)
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	if input.PixelRatio < 1 || input.PixelRatio > MaxPixelRatio {
		return fmt.Errorf("pixel ratio must be between 1 and %d (received %d)", MaxPixelRatio, input.PixelRatio)
	}
	cfg.PixelRatio = input.PixelRatio

	cfg.ChartWidth = input.ChartWidth
	if cfg.ChartWidth == 0 {
		cfg.ChartWidth = DefaultChartWidth
	}
	cfg.ChartHeight = input.ChartHeight
	if cfg.ChartHeight == 0 {
		cfg.ChartHeight = DefaultChartHeight
	}
	if cfg.ChartWidth < 0 || cfg.ChartHeight < 0 {
		return fmt.Errorf("chart size must be positive (received %dx%d)", cfg.ChartWidth, cfg.ChartHeight)
	}

	return nil
}

// processZoomOps parses the comma-separated --zoom list.
func processZoomOps(cfg *Config, input *ConfigRawInput) error {
	ops, err := ParseZoomOps(input.Zoom)
	if err != nil {
		return err
	}
	cfg.ZoomOps = ops
	return nil
}

// ParseZoomOps parses a list like "in,in,out,reset".
func ParseZoomOps(s string) ([]string, error) {
	var ops []string
	for part := range strings.SplitSeq(s, ",") {
		op := strings.ToLower(strings.TrimSpace(part))
		if op == "" {
			continue
		}
		switch op {
		case ZoomInOp, ZoomOutOp, ZoomResetOp:
			ops = append(ops, op)
		default:
			return nil, fmt.Errorf("invalid zoom operation '%s'. must be in, out, reset", part)
		}
	}
	return ops, nil
}

// processInspectAt parses the --at date for the inspect command.
func processInspectAt(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.At) == "" {
		cfg.HasInspectAt = false
		return nil
	}
	ts, err := schema.ParseDate(input.At)
	if err != nil {
		return fmt.Errorf("invalid --at value: %w", err)
	}
	cfg.InspectAt = ts
	cfg.HasInspectAt = true
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ChartOverrides carries per-request chart settings from callers that bypass
// the CLI flags. Empty fields keep the base config value.
type ChartOverrides struct {
	DataPath    string
	Granularity string
	Select      string
	Theme       string
	LineStyle   string
	Zoom        string
	At          string
}

// RevalidateChart applies overrides onto an already validated config.
func RevalidateChart(cfg *Config, o ChartOverrides) error {
	if p := strings.TrimSpace(o.DataPath); p != "" {
		cfg.DataPath = p
	}
	if o.Granularity != "" {
		g := schema.Granularity(strings.ToLower(o.Granularity))
		if _, ok := schema.ValidGranularities[g]; !ok {
			return fmt.Errorf("invalid granularity '%s'. must be day, week", o.Granularity)
		}
		cfg.Granularity = g
	}
	if o.Select != "" {
		sel, err := schema.ParseSelection(o.Select)
		if err != nil {
			return fmt.Errorf("invalid selection: %w", err)
		}
		cfg.Selection = sel
	}
	if o.Theme != "" {
		t := schema.ThemeName(strings.ToLower(o.Theme))
		if _, ok := schema.ValidThemes[t]; !ok {
			return fmt.Errorf("invalid theme '%s'. must be light, dark", o.Theme)
		}
		cfg.Theme = t
	}
	if o.LineStyle != "" {
		ls := schema.LineStyle(strings.ToLower(o.LineStyle))
		if _, ok := schema.ValidLineStyles[ls]; !ok {
			return fmt.Errorf("invalid line style '%s'. must be line, smooth, area", o.LineStyle)
		}
		cfg.LineStyle = ls
	}
	if o.Zoom != "" {
		ops, err := ParseZoomOps(o.Zoom)
		if err != nil {
			return err
		}
		cfg.ZoomOps = ops
	}
	if o.At != "" {
		return processInspectAt(cfg, &ConfigRawInput{At: o.At})
	}
	return nil
}
