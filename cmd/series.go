package cmd

import (
	"github.com/huangsam/abtrend/core"
	"github.com/huangsam/abtrend/internal/contract"
	"github.com/spf13/cobra"
)

// seriesCmd prints the filtered conversion-rate series.
var seriesCmd = &cobra.Command{
	Use:   "series [data-path]",
	Short: "Show conversion rates per date for the selected variations.",
	Long: `Load an experiment dataset and print one conversion rate per variation and date.

Rates are conversions divided by visits, times 100. Dates where a variation has
no visits show no value. Leading and trailing dates with no data for any selected
variation are trimmed; gaps in between are kept.

Examples:
  # Daily rates for every variation using the bundled sample
  abtrend series

  # Weekly averages for the original and Variation B
  abtrend series data.json --granularity week --select original,variantB

  # Export the series for a notebook
  abtrend series data.json --output parquet --output-file series.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute series", err)
		}
	},
}

// viewCmd prints the series together with its zoom state.
var viewCmd = &cobra.Command{
	Use:   "view [data-path]",
	Short: "Show the chart view after applying zoom operations.",
	Long: `Compute the full and visible domains of the chart and print the visible points
with a terminal preview of each variation.

Zoom operations run in order. Each "in" removes a fraction of the visible span
around its center, each "out" adds it back, and "reset" returns to the full range.
The visible span never gets narrower than --min-range-days.

Examples:
  # Zoom in twice on the weekly chart
  abtrend view --granularity week --zoom in,in

  # Zoom in then back out, as JSON
  abtrend view data.json --zoom in,out --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteView(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute view", err)
		}
	},
}

// inspectCmd prints the tooltip for one date.
var inspectCmd = &cobra.Command{
	Use:   "inspect [data-path]",
	Short: "Show every selected variation's rate on the nearest date, best first.",
	Long: `Find the data point nearest to --at and list the selected variations that have
data on that date, sorted from the highest rate to the lowest. With --zoom, only
points inside the zoomed window are considered.

Examples:
  # What happened on January 10th?
  abtrend inspect --at 2024-01-10

  # Weekly bucket containing a date
  abtrend inspect data.json --granularity week --at 2024-01-17

  # Nearest point inside the zoomed window
  abtrend inspect --zoom in,in --at 2024-01-01`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInspect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot inspect point", err)
		}
	},
}

// exportCmd renders the chart to a PNG file.
var exportCmd = &cobra.Command{
	Use:   "export [data-path]",
	Short: "Render the chart to a PNG file.",
	Long: `Render the current view to ab-test-chart-YYYY-MM-DD.png in --export-dir.

The image uses the selected theme and line style and is scaled by --pixel-ratio.
A failed export is reported as a warning and does not fail the command. When a
history backend is configured every attempt is recorded.

Examples:
  # Dark smooth chart of the last zoomed window
  abtrend export --theme dark --line-style smooth --zoom in,in

  # Write into a reports folder at 3x
  abtrend export data.json --export-dir reports --pixel-ratio 3`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export chart", err)
		}
	},
}

// sessionCmd replays chart events from a script.
var sessionCmd = &cobra.Command{
	Use:   "session [data-path]",
	Short: "Replay chart events from a script or stdin.",
	Long: `Drive one chart through a sequence of events, one per line:

  zoom in|out|reset
  toggle <variant>
  select <variants|all>
  granularity day|week
  theme [light|dark]
  style line|smooth|area
  export
  show
  quit

Blank lines and lines starting with '#' are ignored. Changing the selection or
granularity resets zoom; changing theme or style does not.

Examples:
  # Interactive
  abtrend session

  # Scripted
  abtrend session data.json --script events.txt`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSession(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Session failed", err)
		}
	},
}
