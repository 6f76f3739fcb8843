package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// maskedSecret replaces connection strings in dumped settings.
const maskedSecret = "********"

// resolvedConfig is the YAML shape printed by config show.
type resolvedConfig struct {
	Data           string   `yaml:"data"`
	Granularity    string   `yaml:"granularity"`
	Select         string   `yaml:"select"`
	Theme          string   `yaml:"theme"`
	LineStyle      string   `yaml:"line-style"`
	ZoomFactor     float64  `yaml:"zoom-factor"`
	MinRangeDays   float64  `yaml:"min-range-days"`
	VariantIDs     []string `yaml:"variant-ids,omitempty,flow"`
	Output         string   `yaml:"output"`
	OutputFile     string   `yaml:"output-file,omitempty"`
	Precision      int      `yaml:"precision"`
	Color          bool     `yaml:"color"`
	ExportDir      string   `yaml:"export-dir"`
	PixelRatio     int      `yaml:"pixel-ratio"`
	ChartWidth     int      `yaml:"chart-width"`
	ChartHeight    int      `yaml:"chart-height"`
	CacheBackend   string   `yaml:"cache-backend"`
	CacheDB        string   `yaml:"cache-db-connect,omitempty"`
	HistoryBackend string   `yaml:"history-backend,omitempty"`
	HistoryDB      string   `yaml:"history-db-connect,omitempty"`
}

// newResolvedConfig flattens a validated config for display.
func newResolvedConfig(c *contract.Config) resolvedConfig {
	rc := resolvedConfig{
		Data:           c.DataPath,
		Granularity:    string(c.Granularity),
		Select:         c.Selection.String(),
		Theme:          string(c.Theme),
		LineStyle:      string(c.LineStyle),
		ZoomFactor:     c.ZoomFactor,
		MinRangeDays:   c.MinRangeDays,
		Output:         string(c.Output),
		OutputFile:     c.OutputFile,
		Precision:      c.Precision,
		Color:          c.UseColors,
		ExportDir:      c.ExportDir,
		PixelRatio:     c.PixelRatio,
		ChartWidth:     c.ChartWidth,
		ChartHeight:    c.ChartHeight,
		CacheBackend:   string(c.CacheBackend),
		HistoryBackend: string(c.HistoryBackend),
	}
	if rc.Data == "" {
		rc.Data = "(bundled sample)"
	}
	for _, k := range []schema.VariantKey{schema.VariantA, schema.VariantB, schema.VariantC} {
		if id, ok := c.VariantIDOverrides[k]; ok {
			rc.VariantIDs = append(rc.VariantIDs, fmt.Sprintf("%s=%s", k, id))
		}
	}
	if c.CacheDBConnect != "" {
		rc.CacheDB = maskedSecret
	}
	if c.HistoryDBConnect != "" {
		rc.HistoryDB = maskedSecret
	}
	return rc
}

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

// configShowCmd prints the merged configuration as YAML.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration after merging defaults, file, env and flags",
	Long: `Print the validated settings as YAML, in the same shape as a .abtrend file.

Connection strings are masked.

Examples:
  # See what ABTREND_THEME=dark resolves to
  ABTREND_THEME=dark abtrend config show`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(newResolvedConfig(cfg)); err != nil {
			contract.LogFatal("Failed to print config", err)
		}
		_ = enc.Close()
	},
}
