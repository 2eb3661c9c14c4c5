package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gamut/internal/chart"
	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
)

// Generator runs the chart generation stage: patch values via targen, chart
// layout via printtarg, then page count detection from the chart description.
type Generator struct {
	cfg       *config.Config
	logger    *slog.Logger
	targen    *argyll.Targen
	printtarg *argyll.Printtarg

	// PageOverride, when non-empty, replaces the detected page count.
	PageOverride string
}

// NewGenerator constructs the chart stage with real tool clients.
func NewGenerator(cfg *config.Config, logger *slog.Logger) (*Generator, error) {
	targen, err := argyll.NewTargen(cfg.Tools.Targen)
	if err != nil {
		return nil, err
	}
	printtarg, err := argyll.NewPrinttarg(cfg.Tools.Printtarg)
	if err != nil {
		return nil, err
	}
	return NewGeneratorWithDependencies(cfg, logger, targen, printtarg), nil
}

// NewGeneratorWithDependencies allows injecting tool clients (used in tests).
func NewGeneratorWithDependencies(cfg *config.Config, logger *slog.Logger, targen *argyll.Targen, printtarg *argyll.Printtarg) *Generator {
	return &Generator{
		cfg:       cfg,
		logger:    componentLogger(logger, "chart"),
		targen:    targen,
		printtarg: printtarg,
	}
}

// SetLogger installs the run-scoped logger.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

func (g *Generator) Prepare(ctx context.Context, sess *session.Session) error {
	if err := session.ValidateName(sess.Name); err != nil {
		return err
	}
	if _, _, err := chart.ParsePageOverride(g.PageOverride); err != nil {
		return err
	}
	dir := g.cfg.SessionDir(sess.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	return nil
}

func (g *Generator) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, g.logger)
	dir := g.cfg.SessionDir(sess.Name)

	target, err := g.targen.Generate(ctx, dir, sess.Name, g.cfg.Chart.PatchCount, g.cfg.Chart.InkLimit, toolOutput(logger, "targen"))
	if err != nil {
		return err
	}
	logger.Info("patch values generated",
		logging.String("target_file", target),
		logging.Int("patch_count", g.cfg.Chart.PatchCount),
	)

	chartPath, err := g.printtarg.Layout(ctx, dir, sess.Name, g.cfg.Chart.PageSize, g.cfg.Chart.ResolutionDPI, toolOutput(logger, "printtarg"))
	if err != nil {
		return err
	}

	pages, err := chart.ResolvePageCount(chartPath, g.cfg.Chart.PageMarker, g.PageOverride)
	if err != nil {
		return err
	}

	sess.ChartPath = chartPath
	sess.PageCount = pages
	logger.Info("chart ready",
		logging.String("chart_file", chartPath),
		logging.Int("pages", pages),
	)
	return nil
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(logger, component)
}

// toolOutput adapts a logger into the line callback the tool clients stream
// external output through.
func toolOutput(logger *slog.Logger, tool string) func(string) {
	return func(line string) {
		logger.Debug("tool output",
			logging.String(logging.FieldTool, tool),
			logging.String("line", line),
		)
	}
}
