package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/outwriter"
	"github.com/huangsam/abtrend/schema"
)

// Session replays chart events against one ChartState. State lives only as
// long as the session.
type Session struct {
	chart   *ChartState
	cfg     *contract.Config
	history contract.HistoryStore
	out     io.Writer
}

// NewSession binds a chart to an output writer and optional history store.
func NewSession(chart *ChartState, cfg *contract.Config, history contract.HistoryStore, out io.Writer) *Session {
	return &Session{chart: chart, cfg: cfg, history: history, out: out}
}

// Chart exposes the session's chart state.
func (s *Session) Chart() *ChartState {
	return s.chart
}

// Run reads one event per line until EOF, "quit" or context cancellation.
// Blank lines and lines starting with '#' are ignored. The first invalid event
// stops the session with an error naming its line.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.Apply(ctx, fields[0], fields[1:]); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read session events: %w", err)
	}
	return nil
}

// Apply handles a single event.
func (s *Session) Apply(ctx context.Context, cmd string, args []string) error {
	switch strings.ToLower(cmd) {
	case "zoom":
		if len(args) != 1 {
			return fmt.Errorf("usage: zoom in|out|reset")
		}
		ops, err := contract.ParseZoomOps(args[0])
		if err != nil {
			return err
		}
		return ApplyZoomOps(s.chart, ops)

	case "toggle":
		if len(args) != 1 {
			return fmt.Errorf("usage: toggle <variant>")
		}
		k, err := schema.ParseVariantKey(args[0])
		if err != nil {
			return err
		}
		s.chart.ToggleVariant(k)
		return nil

	case "select":
		sel, err := schema.ParseSelection(strings.Join(args, ""))
		if err != nil {
			return err
		}
		s.chart.SetSelection(sel)
		return nil

	case "granularity":
		if len(args) != 1 {
			return fmt.Errorf("usage: granularity day|week")
		}
		g := schema.Granularity(strings.ToLower(args[0]))
		if _, ok := schema.ValidGranularities[g]; !ok {
			return fmt.Errorf("invalid granularity '%s'. must be day, week", args[0])
		}
		s.chart.SetGranularity(g)
		return nil

	case "theme":
		if len(args) == 0 {
			s.chart.ToggleTheme()
			return nil
		}
		t := schema.ThemeName(strings.ToLower(args[0]))
		if _, ok := schema.ValidThemes[t]; !ok {
			return fmt.Errorf("invalid theme '%s'. must be light, dark", args[0])
		}
		s.chart.SetTheme(t)
		return nil

	case "style":
		if len(args) != 1 {
			return fmt.Errorf("usage: style line|smooth|area")
		}
		ls := schema.LineStyle(strings.ToLower(args[0]))
		if _, ok := schema.ValidLineStyles[ls]; !ok {
			return fmt.Errorf("invalid line style '%s'. must be line, smooth, area", args[0])
		}
		s.chart.SetLineStyle(ls)
		return nil

	case "export":
		ExportChart(ctx, s.chart, s.cfg, s.history)
		return nil

	case "show":
		if err := outwriter.WriteViewText(s.out, s.chart.View(), s.cfg); err != nil {
			return err
		}
		_, err := fmt.Fprintln(s.out)
		return err

	default:
		return fmt.Errorf("unknown event '%s'", cmd)
	}
}

// ExecuteSession runs an event script from cfg.ScriptPath, or stdin when unset.
// It serves as the main entry point for the 'session' command.
func ExecuteSession(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	chart, err := LoadChart(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	var script io.Reader = os.Stdin
	if cfg.ScriptPath != "" {
		file, err := os.Open(cfg.ScriptPath)
		if err != nil {
			return fmt.Errorf("failed to open session script: %w", err)
		}
		defer func() { _ = file.Close() }()
		script = file
	}

	out, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if out != os.Stdout {
		defer func() { _ = out.Close() }()
	}

	return NewSession(chart, cfg, historyStore(mgr), out).Run(ctx, script)
}
